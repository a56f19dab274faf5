package pipeline

import (
	"maps"
	"slices"

	"github.com/wharflab/cleanslate/internal/fix"
	"github.com/wharflab/cleanslate/internal/report"
)

func groupDiagnostics(diags []report.Diagnostic) map[string][]fix.AddEdit {
	byFile := make(map[string][]fix.AddEdit)
	for _, d := range diags {
		byFile[d.Path] = append(byFile[d.Path], fix.AddEdit{Line: d.Line, Codes: []string{d.Code}})
	}
	return byFile
}

func groupUnused(unused []report.UnusedSuppression) map[string][]fix.PruneEdit {
	byFile := make(map[string][]fix.PruneEdit)
	for _, u := range unused {
		byFile[u.Path] = append(byFile[u.Path], fix.PruneEdit{Line: u.Line, Codes: u.Codes})
	}
	return byFile
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
