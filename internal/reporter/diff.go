package reporter

import (
	"io"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/wharflab/cleanslate/internal/pipeline"
)

// DiffContext is the number of unchanged lines shown around each hunk.
const DiffContext = 3

// WriteDiff writes a unified diff of every changed file to w, in path order.
// Unchanged files are skipped.
func WriteDiff(w io.Writer, res *pipeline.Result) error {
	for _, f := range res.Files() {
		if !f.Changed() {
			continue
		}
		name := filepath.ToSlash(f.Path)
		err := difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(f.Before)),
			B:        difflib.SplitLines(string(f.After)),
			FromFile: "a/" + name,
			ToFile:   "b/" + name,
			Context:  DiffContext,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
