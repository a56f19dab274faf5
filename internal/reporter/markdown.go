package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/cleanslate/internal/pipeline"
)

// MarkdownReporter formats edits as a concise markdown table, suitable for
// a pull request comment.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(res *pipeline.Result, meta Metadata) error {
	edits := CollectEdits(res)
	if len(edits) == 0 {
		_, err := fmt.Fprintln(r.writer, "**No changes needed**")
		return err
	}

	verb := "Updated"
	if meta.DryRun {
		verb = "Would update"
	}
	t := res.Totals()
	if _, err := fmt.Fprintf(r.writer, "**%s %d %s** across %d %s\n\n",
		verb, len(edits), pluralize(len(edits), "line", "lines"),
		t.Changed, pluralize(t.Changed, "file", "files")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| File | Line | Change | Result |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|------|--------|--------|"); err != nil {
		return err
	}

	for _, e := range edits {
		if _, err := fmt.Fprintf(r.writer, "| %s | %d | %s %s | `%s` |\n",
			e.File, e.Line, kindEmoji(e.Kind), e.Kind, escapeMarkdown(strings.TrimSpace(e.After))); err != nil {
			return err
		}
	}

	return nil
}

// kindEmoji returns an emoji indicator for the edit kind.
func kindEmoji(k EditKind) string {
	switch k {
	case EditAdded:
		return "➕"
	case EditPruned:
		return "➖"
	default:
		return "✏️"
	}
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	// Escape pipe characters which break table formatting
	s = strings.ReplaceAll(s, "|", "\\|")
	// Backticks would close the code span
	s = strings.ReplaceAll(s, "`", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
