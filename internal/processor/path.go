package processor

import (
	"path/filepath"

	"github.com/wharflab/cleanslate/internal/report"
)

// PathNormalization cleans reported paths, so "./a.py" and "a.py" name the
// same file when records are merged.
type PathNormalization struct{}

// NewPathNormalization creates a new path normalization processor.
func NewPathNormalization() *PathNormalization {
	return &PathNormalization{}
}

// Name returns the processor's identifier.
func (p *PathNormalization) Name() string {
	return "path-normalization"
}

// Process cleans every record path.
func (p *PathNormalization) Process(r *report.Report, _ *Context) *report.Report {
	out := &report.Report{
		Diagnostics: make([]report.Diagnostic, len(r.Diagnostics)),
		Unused:      make([]report.UnusedSuppression, len(r.Unused)),
		Notes:       r.Notes,
	}
	for i, d := range r.Diagnostics {
		d.Path = filepath.Clean(d.Path)
		out.Diagnostics[i] = d
	}
	for i, u := range r.Unused {
		u.Path = filepath.Clean(u.Path)
		out.Unused[i] = u
	}
	return out
}
