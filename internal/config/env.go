package config

import (
	"strings"

	"mvdan.cc/sh/v3/shell"
)

var allowedEnvTopLevelKeys = map[string]struct{}{
	"report": {},
	"mypy":   {},
	"edit":   {},
	"log":    {},
	"output": {},
}

// listKeys are decoded from a comma-separated environment value.
var listKeys = map[string]struct{}{
	"edit.exclude":    {},
	"edit.skip-codes": {},
}

// envKeyTransform converts environment variable names to config keys.
// CLEANSLATE_REPORT_PATH -> report.path
// CLEANSLATE_EDIT_MAX_FILE_SIZE -> edit.max-file-size
//
// Every section name is a single word, so the first underscore separates
// the section and the rest become hyphens.
func envKeyTransform(k, v string) (string, any) {
	s := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	section, rest, ok := strings.Cut(s, "_")
	if !ok || rest == "" {
		return "", nil
	}
	if _, ok := allowedEnvTopLevelKeys[section]; !ok {
		return "", nil
	}
	key := section + "." + strings.ReplaceAll(rest, "_", "-")

	if _, ok := listKeys[key]; ok {
		return key, splitList(v)
	}
	if key == "mypy.command" {
		// Shell-quoted argv, e.g. CLEANSLATE_MYPY_COMMAND="uv run mypy".
		fields, err := shell.Fields(v, nil)
		if err != nil {
			return key, []string{v}
		}
		return key, fields
	}
	return key, v
}

func splitList(v string) []string {
	out := []string{}
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
