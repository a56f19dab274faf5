package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/cleanslate/internal/config"
	"github.com/wharflab/cleanslate/internal/fix"
	"github.com/wharflab/cleanslate/internal/report"
	"github.com/wharflab/cleanslate/internal/testutil"
)

const usageSource = `from __future__ import annotations


def add(*, arg_1, arg_2):
    return arg_1 + arg_2


add(arg_1=1, arg_2="s") # inline comment.


def useless_sub(*, arg_1: float, arg_2: Sequence):
    return add(arg_1=arg_1, arg_2="what") - arg_2


useless_sub(arg_1=3, arg_2=4)
useless_sub(arg_1=3, arg_2="4")`

const usageReport = `file_to_check.py:4: error: Function is missing a type annotation  [no-untyped-def]
file_to_check.py:8: error: Call to untyped function "add" in typed context  [no-untyped-call]
file_to_check.py:11: error: Function is missing a type annotation for one or more arguments  [no-untyped-def]
file_to_check.py:11: error: Name "Sequence" is not defined  [name-defined]
file_to_check.py:12: error: Call to untyped function "add" in typed context  [no-untyped-call]
Found 5 errors in 1 file (checked 1 source file)
`

func parse(t *testing.T, text string) *report.Report {
	t.Helper()
	rep, err := report.Parse(text)
	require.NoError(t, err)
	return rep
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{"file_to_check.py": usageSource})

	res, err := Run(context.Background(), Input{
		Report:     parse(t, usageReport),
		AddIgnores: true,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	testutil.MatchSourceSnapshot(t, testutil.ReadFile(t, "file_to_check.py"))
	assert.Empty(t, res.Pruned)
	require.Len(t, res.Added, 1)
	assert.Len(t, res.Added[0].Applied, 4)

	// A second run against the same report changes nothing.
	again, err := Run(context.Background(), Input{
		Report:     parse(t, usageReport),
		AddIgnores: true,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Totals().Changed)
	assert.Equal(t, 4, again.Totals().Skipped)
}

func TestRunRemoveUnused(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{
		"file_to_check.py": `def f(x : float) -> float:
    return x ** 2

def main() -> int:
    y = f(12)  # type: ignore[no-untyped-call]
    return 0

if __name__ == '__main__':
    raise SystemExit(main())`,
	})
	rep := parse(t, `file_to_check.py:5: error: Unused "type: ignore" comment  [unused-ignore]
Found 1 error in 1 file (checked 1 source file)
`)

	res, err := Run(context.Background(), Input{
		Report:       rep,
		RemoveUnused: true,
		AddIgnores:   true,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.Equal(t, `def f(x : float) -> float:
    return x ** 2

def main() -> int:
    y = f(12)
    return 0

if __name__ == '__main__':
    raise SystemExit(main())`, testutil.ReadFile(t, "file_to_check.py"))
	require.Len(t, res.Pruned, 1)
	assert.Empty(t, res.Added)
}

func TestRunPruneThenAddSameLine(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{"mod.py": "x = g()  # type: ignore[attr-defined]\n"})
	rep := parse(t, `mod.py:1: error: Unused "type: ignore[attr-defined]" comment  [unused-ignore]
mod.py:1: error: Call to untyped function "g" in typed context  [no-untyped-call]
`)

	_, err := Run(context.Background(), Input{
		Report:       rep,
		RemoveUnused: true,
		AddIgnores:   true,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.Equal(t, "x = g()  # type: ignore[no-untyped-call]\n", testutil.ReadFile(t, "mod.py"))
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	original := "x = g()  # type: ignore[attr-defined]\n"
	testutil.WriteTree(t, dir, map[string]string{"mod.py": original})
	rep := parse(t, `mod.py:1: error: Unused "type: ignore[attr-defined]" comment  [unused-ignore]
mod.py:1: error: Call to untyped function "g" in typed context  [no-untyped-call]
`)

	res, err := Run(context.Background(), Input{
		Report:       rep,
		RemoveUnused: true,
		AddIgnores:   true,
		DryRun:       true,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.Equal(t, original, testutil.ReadFile(t, "mod.py"))

	files := res.Files()
	require.Len(t, files, 1)
	assert.Equal(t, original, string(files[0].Before))
	assert.Equal(t, "x = g()  # type: ignore[no-untyped-call]\n", string(files[0].After))
	assert.False(t, files[0].Written)
	assert.Equal(t, Totals{Files: 1, Changed: 1, Pruned: 1, Added: 1}, res.Totals())
}

func TestRunAppliesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{
		"src/app.py":         "import requests\nx = f()\n",
		"migrations/0001.py": "y = f()\n",
	})
	rep := parse(t, `src/app.py:1: error: Library stubs not installed for "requests"  [import-untyped]
src/app.py:2: error: Call to untyped function "f" in typed context  [no-untyped-call]
migrations/0001.py:1: error: Call to untyped function "f" in typed context  [no-untyped-call]
`)
	cfg := config.Default()
	cfg.Edit.Exclude = []string{"migrations/**"}
	cfg.Edit.SkipCodes = []string{"import-untyped"}

	res, err := Run(context.Background(), Input{
		Report:     rep,
		Config:     cfg,
		AddIgnores: true,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.Equal(t, "import requests\nx = f()  # type: ignore[no-untyped-call]\n", testutil.ReadFile(t, "src/app.py"))
	assert.Equal(t, "y = f()\n", testutil.ReadFile(t, "migrations/0001.py"))
	assert.Len(t, res.Report.Diagnostics, 1)
}

func TestRunFilesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{"b.py": "b()\n", "a.py": "a()\n"})
	rep := parse(t, `b.py:1: error: Call to untyped function "b" in typed context  [no-untyped-call]
a.py:1: error: Call to untyped function "a" in typed context  [no-untyped-call]
`)

	res, err := Run(context.Background(), Input{Report: rep, AddIgnores: true, Logger: zerolog.Nop()})
	require.NoError(t, err)

	require.Len(t, res.Added, 2)
	assert.Equal(t, "a.py", res.Added[0].Path)
	assert.Equal(t, "b.py", res.Added[1].Path)
}

func TestRunStopsOnError(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{"a.py": "a()\n", "c.py": "c()\n"})
	rep := parse(t, `a.py:1: error: Call to untyped function "a" in typed context  [no-untyped-call]
b.py:1: error: Call to untyped function "b" in typed context  [no-untyped-call]
c.py:1: error: Call to untyped function "c" in typed context  [no-untyped-call]
`)

	res, err := Run(context.Background(), Input{Report: rep, AddIgnores: true, Logger: zerolog.Nop()})
	require.ErrorIs(t, err, os.ErrNotExist)

	// Files before the failure stay written.
	assert.Equal(t, "a()  # type: ignore[no-untyped-call]\n", testutil.ReadFile(t, "a.py"))
	assert.Equal(t, "c()\n", testutil.ReadFile(t, "c.py"))
	require.Len(t, res.Added, 1)
	assert.Equal(t, "a.py", res.Added[0].Path)
}

func TestRunStaleReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{"a.py": "a()\n"})
	rep := parse(t, "a.py:40: error: Call to untyped function \"a\" in typed context  [no-untyped-call]\n")

	_, err := Run(context.Background(), Input{Report: rep, AddIgnores: true, Logger: zerolog.Nop()})
	var outOfRange *fix.LineOutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{"a.py": "a()\n"})
	rep := parse(t, "a.py:1: error: Call to untyped function \"a\" in typed context  [no-untyped-call]\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Input{Report: rep, AddIgnores: true, Logger: zerolog.Nop()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "a()\n", testutil.ReadFile(t, "a.py"))
}

func TestReadReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	t.Run("missing", func(t *testing.T) {
		_, err := ReadReport(path)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("success line", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("Success: no issues found in 3 source files\n"), 0o644))
		_, err := ReadReport(path)
		var noIssues *report.NoIssuesError
		require.ErrorAs(t, err, &noIssues)
	})

	t.Run("parsed", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(usageReport), 0o644))
		rep, err := ReadReport(path)
		require.NoError(t, err)
		assert.Len(t, rep.Diagnostics, 5)
	})
}

type fakeGenerator struct {
	target string
	flags  []string
	out    string
	err    error
}

func (g *fakeGenerator) Generate(_ context.Context, target string, flags []string) (string, error) {
	g.target = target
	g.flags = flags
	return g.out, g.err
}

func TestGenerateReport(t *testing.T) {
	cfg := config.Default()
	cfg.Report.Path = filepath.Join(t.TempDir(), "mypy_error_report.txt")
	cfg.Mypy.Path = "src"
	cfg.Mypy.Flags = `--disallow-untyped-calls --exclude 'build/.*'`

	gen := &fakeGenerator{out: usageReport}
	require.NoError(t, GenerateReport(context.Background(), gen, cfg))

	assert.Equal(t, "src", gen.target)
	assert.Equal(t, []string{"--disallow-untyped-calls", "--exclude", "build/.*"}, gen.flags)
	assert.Equal(t, usageReport, testutil.ReadFile(t, cfg.Report.Path))
}

func TestGenerateReportErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Report.Path = filepath.Join(t.TempDir(), "report.txt")

	boom := errors.New("boom")
	require.ErrorIs(t, GenerateReport(context.Background(), &fakeGenerator{err: boom}, cfg), boom)

	cfg.Mypy.Flags = "--strict $(whoami)"
	require.Error(t, GenerateReport(context.Background(), &fakeGenerator{}, cfg))
	_, err := os.Stat(cfg.Report.Path)
	assert.ErrorIs(t, err, os.ErrNotExist, "no report is written on failure")
}
