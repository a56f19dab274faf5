package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/wharflab/cleanslate/internal/pipeline"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains one entry per touched file.
	Files []FileResult `json:"files"`
	// Edits lists every rewritten line.
	Edits []Edit `json:"edits"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// Report is the checker report that was applied.
	Report string `json:"report,omitempty"`
	// DryRun is true when no file was written.
	DryRun bool `json:"dry_run"`
}

// FileResult contains the outcome for a single file.
type FileResult struct {
	File     string `json:"file"`
	Changed  bool   `json:"changed"`
	Written  bool   `json:"written"`
	Added    int    `json:"added"`
	Pruned   int    `json:"pruned"`
	Skipped  int    `json:"skipped"`
	Warnings int    `json:"warnings"`
}

// Summary contains aggregate statistics about the run.
type Summary struct {
	Files    int `json:"files"`
	Changed  int `json:"changed"`
	Added    int `json:"added"`
	Pruned   int `json:"pruned"`
	Skipped  int `json:"skipped"`
	Warnings int `json:"warnings"`
	Notes    int `json:"notes"`
}

// JSONReporter formats results as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(res *pipeline.Result, meta Metadata) error {
	files := res.Files()
	t := res.Totals()

	output := JSONOutput{
		Files: make([]FileResult, 0, len(files)),
		Edits: CollectEdits(res),
		Summary: Summary{
			Files:    t.Files,
			Changed:  t.Changed,
			Added:    t.Added,
			Pruned:   t.Pruned,
			Skipped:  t.Skipped,
			Warnings: t.Warnings,
		},
		Report: meta.ReportPath,
		DryRun: meta.DryRun,
	}
	if res.Report != nil {
		output.Summary.Notes = res.Report.Notes
	}
	if output.Edits == nil {
		output.Edits = []Edit{}
	}

	for _, f := range files {
		output.Files = append(output.Files, FileResult{
			File:     filepath.ToSlash(f.Path),
			Changed:  f.Changed(),
			Written:  f.Written,
			Added:    f.Added,
			Pruned:   f.Pruned,
			Skipped:  f.Skipped,
			Warnings: f.Warnings,
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
