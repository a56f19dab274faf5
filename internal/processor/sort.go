package processor

import (
	"slices"

	"github.com/wharflab/cleanslate/internal/report"
)

// Sorting ensures stable, deterministic record ordering.
// Order: file path, then line number, then code.
type Sorting struct{}

// NewSorting creates a new sorting processor.
func NewSorting() *Sorting {
	return &Sorting{}
}

// Name returns the processor's identifier.
func (p *Sorting) Name() string {
	return "sorting"
}

// Process sorts records in a stable order.
func (p *Sorting) Process(r *report.Report, _ *Context) *report.Report {
	return &report.Report{
		Diagnostics: slices.SortedStableFunc(slices.Values(r.Diagnostics), report.CompareDiagnostics),
		Unused:      slices.SortedStableFunc(slices.Values(r.Unused), report.CompareUnused),
		Notes:       r.Notes,
	}
}
