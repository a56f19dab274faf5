package processor

import (
	"slices"

	"github.com/wharflab/cleanslate/internal/report"
)

// CodeFilter drops diagnostics whose code is listed in Context.SkipCodes.
// Those errors stay visible to the checker instead of being silenced.
// Unused suppressions are kept: removing a stale code is always safe.
type CodeFilter struct{}

// NewCodeFilter creates a new code filter processor.
func NewCodeFilter() *CodeFilter {
	return &CodeFilter{}
}

// Name returns the processor's identifier.
func (p *CodeFilter) Name() string {
	return "code-filter"
}

// Process removes diagnostics with skipped codes.
func (p *CodeFilter) Process(r *report.Report, ctx *Context) *report.Report {
	if ctx == nil || len(ctx.SkipCodes) == 0 {
		return r
	}
	return filterReport(r,
		func(d report.Diagnostic) bool { return !slices.Contains(ctx.SkipCodes, d.Code) },
		keepAllUnused,
	)
}
