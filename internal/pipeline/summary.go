package pipeline

import (
	"cmp"
	"slices"

	"github.com/wharflab/cleanslate/internal/fix"
)

// FileSummary merges the passes for one file.
type FileSummary struct {
	Path string

	// Before is the content before the first pass, After the content
	// after the last one.
	Before []byte
	After  []byte

	Pruned   int
	Added    int
	Skipped  int
	Warnings int
	Written  bool
}

// Changed reports whether the file content differs after all passes.
func (s FileSummary) Changed() bool {
	return string(s.Before) != string(s.After)
}

// Files returns one summary per touched file, sorted by path.
func (r *Result) Files() []FileSummary {
	index := make(map[string]int)
	var out []FileSummary

	merge := func(fc *fix.FileChange, pruned bool) {
		i, ok := index[fc.Path]
		if !ok {
			i = len(out)
			index[fc.Path] = i
			out = append(out, FileSummary{Path: fc.Path, Before: fc.OriginalContent})
		}
		s := &out[i]
		s.After = fc.ModifiedContent
		if pruned {
			s.Pruned += len(fc.Applied)
		} else {
			s.Added += len(fc.Applied)
		}
		s.Skipped += len(fc.Skipped)
		s.Warnings += fc.Warnings
		s.Written = s.Written || fc.Written
	}
	for _, fc := range r.Pruned {
		merge(fc, true)
	}
	for _, fc := range r.Added {
		merge(fc, false)
	}

	slices.SortFunc(out, func(a, b FileSummary) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// Totals sums line counts across files.
type Totals struct {
	Files    int
	Changed  int
	Pruned   int
	Added    int
	Skipped  int
	Warnings int
}

// Totals returns run-wide counts.
func (r *Result) Totals() Totals {
	var t Totals
	for _, s := range r.Files() {
		t.Files++
		if s.Changed() {
			t.Changed++
		}
		t.Pruned += s.Pruned
		t.Added += s.Added
		t.Skipped += s.Skipped
		t.Warnings += s.Warnings
	}
	return t
}
