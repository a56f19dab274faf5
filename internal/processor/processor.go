// Package processor provides a composable report processing pipeline.
//
// Records flow through a sequence of processors, each transforming the
// report (filtering, rewriting, or reordering) before any file is touched.
//
// Standard pipeline order:
//  1. PathNormalization - Clean reported paths so duplicates line up
//  2. PathExclusionFilter - Drop records for excluded files
//  3. CodeFilter - Drop diagnostics whose code must never be suppressed
//  4. Deduplication - Merge duplicate records
//  5. Sorting - Stable file and line ordering
package processor

import (
	"github.com/wharflab/cleanslate/internal/report"
)

// Processor transforms a report.
// Implementations should be stateless where possible, using Context for shared state.
type Processor interface {
	// Name returns the processor's identifier (for debugging/logging).
	Name() string

	// Process applies the processor's logic to the report.
	// Must not modify the input report; return a new one if anything changes.
	Process(r *report.Report, ctx *Context) *report.Report
}

// Context provides shared state for processors.
// Populated once before running the chain, then passed to each processor.
type Context struct {
	// Exclude holds doublestar patterns; matching files are never edited.
	Exclude []string

	// SkipCodes are error codes that must never be added as suppressions.
	SkipCodes []string
}

// NewContext creates a new processor context.
func NewContext(exclude, skipCodes []string) *Context {
	return &Context{
		Exclude:   exclude,
		SkipCodes: skipCodes,
	}
}

// Chain runs processors in sequence.
type Chain struct {
	processors []Processor
}

// NewChain creates a new processor chain.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Default returns the standard chain.
func Default() *Chain {
	return NewChain(
		NewPathNormalization(),
		NewPathExclusionFilter(),
		NewCodeFilter(),
		NewDeduplication(),
		NewSorting(),
	)
}

// Process runs all processors in sequence.
func (c *Chain) Process(r *report.Report, ctx *Context) *report.Report {
	for _, p := range c.processors {
		r = p.Process(r, ctx)
	}
	return r
}

// Names returns the processor names in run order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.processors))
	for i, p := range c.processors {
		names[i] = p.Name()
	}
	return names
}

// filterReport is a helper for processors that filter records.
// It returns a new report containing only records the keep funcs accept.
func filterReport(
	r *report.Report,
	keepDiag func(d report.Diagnostic) bool,
	keepUnused func(u report.UnusedSuppression) bool,
) *report.Report {
	out := &report.Report{
		Diagnostics: make([]report.Diagnostic, 0, len(r.Diagnostics)),
		Unused:      make([]report.UnusedSuppression, 0, len(r.Unused)),
		Notes:       r.Notes,
	}
	for _, d := range r.Diagnostics {
		if keepDiag(d) {
			out.Diagnostics = append(out.Diagnostics, d)
		}
	}
	for _, u := range r.Unused {
		if keepUnused(u) {
			out.Unused = append(out.Unused, u)
		}
	}
	return out
}

func keepAllUnused(report.UnusedSuppression) bool { return true }
