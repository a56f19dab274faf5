package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/cleanslate/internal/fix"
	"github.com/wharflab/cleanslate/internal/pipeline"
)

func skippedOnly() *pipeline.Result {
	content := []byte("x = 1  # type: ignore[misc]\n")
	return &pipeline.Result{
		Added: []*fix.FileChange{{
			Path:            "c.py",
			Skipped:         []fix.SkippedEdit{{Line: 0}, {Line: 0}},
			OriginalContent: content,
			ModifiedContent: content,
		}},
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf)
	require.NoError(t, r.Report(sampleResult(), Metadata{ReportPath: "mypy_error_report.txt"}))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "mypy_error_report.txt", out.Report)
	assert.False(t, out.DryRun)
	assert.Equal(t, Summary{Files: 2, Changed: 2, Added: 2, Pruned: 1, Skipped: 1, Warnings: 1, Notes: 2}, out.Summary)

	require.Len(t, out.Files, 2)
	assert.Equal(t, FileResult{File: "a.py", Changed: true, Written: true, Added: 2, Skipped: 1, Warnings: 1}, out.Files[0])
	assert.Equal(t, FileResult{File: "pkg/b.py", Changed: true, Written: true, Pruned: 1}, out.Files[1])

	require.Len(t, out.Edits, 3)
	assert.Equal(t, EditPruned, out.Edits[2].Kind)
	assert.Equal(t, "y = f(12)\n", out.Edits[2].After)

	snaps.WithConfig(snaps.JSON(snaps.JSONConfig{
		SortKeys: true,
		Indent:   "  ",
	})).MatchStandaloneJSON(t, buf.String())
}

func TestJSONReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf)
	require.NoError(t, r.Report(&pipeline.Result{}, Metadata{DryRun: true}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, []any{}, raw["files"])
	assert.Equal(t, []any{}, raw["edits"])
	assert.Equal(t, true, raw["dry_run"])
	assert.NotContains(t, raw, "report")
}
