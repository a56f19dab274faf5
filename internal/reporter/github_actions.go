package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wharflab/cleanslate/internal/pipeline"
)

// GitHubActionsReporter formats edits as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI, so a
// reviewer sees every suppression the run added or removed.
//
// Format: ::notice file={file},line={line},title={title}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-a-notice-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(res *pipeline.Result, _ Metadata) error {
	for _, e := range CollectEdits(res) {
		parts := []string{
			"file=" + escapeGitHubProperty(e.File),
			fmt.Sprintf("line=%d", e.Line),
			"title=" + escapeGitHubProperty("type: ignore "+string(e.Kind)),
		}

		if _, err := fmt.Fprintf(r.writer, "::notice %s::%s\n",
			strings.Join(parts, ","),
			escapeGitHubMessage(strings.TrimSpace(e.After)),
		); err != nil {
			return err
		}
	}

	for _, f := range res.Files() {
		if f.Warnings == 0 {
			continue
		}
		if _, err := fmt.Fprintf(r.writer, "::warning file=%s::%s\n",
			escapeGitHubProperty(filepath.ToSlash(f.Path)),
			escapeGitHubMessage(fmt.Sprintf("%d %s could not be scanned for string literals",
				f.Warnings, pluralize(f.Warnings, "line", "lines"))),
		); err != nil {
			return err
		}
	}

	return nil
}

// escapeGitHubMessage escapes special characters in GitHub Actions workflow command messages.
// Messages use escapeData() rules which escape "%", "\r", "\n" but NOT ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes special characters in GitHub Actions workflow command properties.
// Properties (file, title, etc.) use escapeProperty() rules which escape "%", "\r", "\n", ":", and ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubProperty(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
