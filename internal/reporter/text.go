package reporter

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/termenv"

	"github.com/wharflab/cleanslate/internal/pipeline"
)

// Styles for different parts of the output
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	// File location style
	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	// Line content style
	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Gray

	// Summary style
	summaryStyle = lipgloss.NewStyle().
			Bold(true)

	// Warning count style
	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")) // Orange/Yellow

	kindStyles = map[EditKind]lipgloss.Style{
		EditAdded: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")), // Green
		EditPruned: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Blue
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// ShowEdits lists every rewritten line before the summary.
	ShowEdits bool
}

// TextReporter formats results as styled text output.
type TextReporter struct {
	writer io.Writer
	opts   TextOptions
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(w io.Writer, opts TextOptions) *TextReporter {
	return &TextReporter{writer: w, opts: opts}
}

func (r *TextReporter) colorEnabled() bool {
	if r.opts.Color != nil {
		return *r.opts.Color
	}
	return useColors
}

func (r *TextReporter) style(s lipgloss.Style, text string) string {
	if !r.colorEnabled() {
		return text
	}
	return s.Render(text)
}

// Report implements Reporter.
func (r *TextReporter) Report(res *pipeline.Result, meta Metadata) error {
	if r.opts.ShowEdits {
		for _, e := range CollectEdits(res) {
			loc := fmt.Sprintf("%s:%d:", e.File, e.Line)
			kind := fmt.Sprintf("%-6s", e.Kind)
			if _, err := fmt.Fprintf(r.writer, "%s %s %s\n",
				r.style(fileLocStyle, loc),
				r.style(kindStyles[e.Kind], kind),
				r.style(lineStyle, strings.TrimSpace(e.After)),
			); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(r.writer, r.summary(res.Totals(), meta))
	return err
}

// summary renders the closing line, e.g.
// "Updated 2 files: 5 suppressions added, 1 pruned, 3 already in place".
func (r *TextReporter) summary(t pipeline.Totals, meta Metadata) string {
	if t.Changed == 0 {
		msg := "No changes needed"
		if t.Skipped > 0 {
			msg += fmt.Sprintf(": %d %s already in place", t.Skipped, pluralize(t.Skipped, "suppression", "suppressions"))
		}
		return r.style(summaryStyle, msg)
	}

	verb := "Updated"
	if meta.DryRun {
		verb = "Would update"
	}
	parts := []string{
		fmt.Sprintf("%d %s added", t.Added, pluralize(t.Added, "suppression", "suppressions")),
		fmt.Sprintf("%d pruned", t.Pruned),
	}
	if t.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d already in place", t.Skipped))
	}
	msg := r.style(summaryStyle, fmt.Sprintf("%s %d %s", verb, t.Changed, pluralize(t.Changed, "file", "files"))) +
		": " + strings.Join(parts, ", ")

	if t.Warnings > 0 {
		msg += " " + r.style(warningStyle, fmt.Sprintf("(%d %s)", t.Warnings, pluralize(t.Warnings, "warning", "warnings")))
	}
	return msg
}
