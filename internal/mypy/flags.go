package mypy

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// SplitFlags splits a shell-quoted flag string into argv words, e.g.
//
//	--strict --exclude 'build/.*' --python-version "3.12"
//
// Quotes are removed but nothing is expanded: variables, command
// substitutions and other shell constructs are rejected, and glob
// characters are passed through literally.
func SplitFlags(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parser := syntax.NewParser(
		syntax.Variant(syntax.LangPOSIX),
		syntax.KeepComments(false),
	)
	file, err := parser.Parse(strings.NewReader(s), "")
	if err != nil {
		return nil, &FlagsError{Flags: s, Reason: err.Error()}
	}

	// Require exactly one statement (no pipelines/blocks/conditionals).
	if len(file.Stmts) != 1 {
		return nil, &FlagsError{Flags: s, Reason: "expected a single list of flags"}
	}
	stmt := file.Stmts[0]
	if stmt == nil || stmt.Cmd == nil || len(stmt.Redirs) > 0 || stmt.Background || stmt.Negated {
		return nil, &FlagsError{Flags: s, Reason: "redirections and operators are not allowed"}
	}

	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Assigns) > 0 {
		return nil, &FlagsError{Flags: s, Reason: "expected plain words"}
	}

	args := make([]string, 0, len(call.Args))
	for _, w := range call.Args {
		word, ok := literalWord(w)
		if !ok {
			return nil, &FlagsError{Flags: s, Reason: fmt.Sprintf("cannot expand %q", s[w.Pos().Offset():w.End().Offset()])}
		}
		args = append(args, word)
	}
	return args, nil
}

// literalWord renders a word made entirely of literals and quotes.
func literalWord(w *syntax.Word) (string, bool) {
	if w == nil || len(w.Parts) == 0 {
		return "", false
	}

	var b strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			b.WriteString(p.Value)
		case *syntax.SglQuoted:
			b.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dp := range p.Parts {
				lit, ok := dp.(*syntax.Lit)
				if !ok {
					// Disallow $var, `cmd`, $(cmd), etc.
					return "", false
				}
				b.WriteString(lit.Value)
			}
		default:
			return "", false
		}
	}
	return b.String(), true
}

// FlagsError is returned when a flag string cannot be split.
type FlagsError struct {
	Flags  string
	Reason string
}

func (e *FlagsError) Error() string {
	return fmt.Sprintf("invalid mypy flags %q: %s", e.Flags, e.Reason)
}
