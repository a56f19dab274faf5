package processor

import (
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wharflab/cleanslate/internal/report"
)

// PathExclusionFilter removes records for files matching Context.Exclude.
// Both diagnostics and unused suppressions are dropped, so an excluded file
// is never opened.
type PathExclusionFilter struct{}

// NewPathExclusionFilter creates a new path exclusion filter processor.
func NewPathExclusionFilter() *PathExclusionFilter {
	return &PathExclusionFilter{}
}

// Name returns the processor's identifier.
func (p *PathExclusionFilter) Name() string {
	return "path-exclusion-filter"
}

// Process filters out records for files that match exclusion patterns.
func (p *PathExclusionFilter) Process(r *report.Report, ctx *Context) *report.Report {
	if ctx == nil || len(ctx.Exclude) == 0 {
		return r
	}
	return filterReport(r,
		func(d report.Diagnostic) bool { return !excluded(ctx.Exclude, d.Path) },
		func(u report.UnusedSuppression) bool { return !excluded(ctx.Exclude, u.Path) },
	)
}

func excluded(patterns []string, path string) bool {
	path = filepath.ToSlash(path)
	return slices.ContainsFunc(patterns, func(pattern string) bool {
		matched, err := doublestar.Match(pattern, path)
		// Invalid patterns are rejected when config loads; treat as no match here.
		return err == nil && matched
	})
}
