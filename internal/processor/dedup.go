package processor

import (
	"slices"

	"github.com/wharflab/cleanslate/internal/annotation"
	"github.com/wharflab/cleanslate/internal/report"
)

// Deduplication removes duplicate records.
//
// Two diagnostics are duplicates if they share file, line and code; the
// first occurrence wins. Unused suppressions for the same file and line are
// merged into one record whose codes are the union, except that a record
// with no codes (the whole annotation is unused) absorbs the others.
type Deduplication struct{}

// NewDeduplication creates a new deduplication processor.
func NewDeduplication() *Deduplication {
	return &Deduplication{}
}

// Name returns the processor's identifier.
func (p *Deduplication) Name() string {
	return "deduplication"
}

type lineKey struct {
	path string
	line int
}

// Process removes duplicate records.
func (p *Deduplication) Process(r *report.Report, _ *Context) *report.Report {
	type diagKey struct {
		lineKey
		code string
	}
	seen := make(map[diagKey]bool)
	out := filterReport(r, func(d report.Diagnostic) bool {
		key := diagKey{lineKey{d.Path, d.Line}, d.Code}
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	}, keepAllUnused)

	out.Unused = mergeUnused(out.Unused)
	return out
}

func mergeUnused(unused []report.UnusedSuppression) []report.UnusedSuppression {
	index := make(map[lineKey]int, len(unused))
	merged := make([]report.UnusedSuppression, 0, len(unused))
	for _, u := range unused {
		key := lineKey{u.Path, u.Line}
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			u.Codes = slices.Clone(u.Codes)
			merged = append(merged, u)
			continue
		}
		switch {
		case len(merged[i].Codes) == 0:
			// Whole annotation already unused.
		case len(u.Codes) == 0:
			merged[i].Codes = nil
		default:
			merged[i].Codes = annotation.Normalize(slices.Concat(merged[i].Codes, u.Codes))
		}
	}
	return merged
}
