// Package pipeline provides the report-to-edit pipeline shared by the CLI
// commands.
//
// The pipeline: report → processor chain → prune pass → add pass. Each pass
// visits affected files in sorted path order and edits every affected line
// of a file in one read/write cycle.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/wharflab/cleanslate/internal/config"
	"github.com/wharflab/cleanslate/internal/fix"
	"github.com/wharflab/cleanslate/internal/mypy"
	"github.com/wharflab/cleanslate/internal/processor"
	"github.com/wharflab/cleanslate/internal/report"
)

// Input configures a single invocation of [Run].
type Input struct {
	// Report is the parsed checker report.
	Report *report.Report

	// Config is the resolved configuration. Nil means config.Default().
	Config *config.Config

	// RemoveUnused runs the prune pass.
	RemoveUnused bool

	// AddIgnores runs the add pass.
	AddIgnores bool

	// DryRun computes every edit without writing any file.
	DryRun bool

	// Logger receives progress and per-line warnings.
	Logger zerolog.Logger
}

// Result contains the output of [Run].
type Result struct {
	// Report is the report after the processor chain.
	Report *report.Report

	// Pruned holds one change per file touched by the prune pass.
	Pruned []*fix.FileChange

	// Added holds one change per file touched by the add pass.
	Added []*fix.FileChange
}

// Run applies the report to the source files: unused suppressions are
// pruned first, then missing ones are added.
//
// The context is checked between files. Files already written stay written
// when Run returns an error, and the returned Result lists them.
func Run(ctx context.Context, in Input) (*Result, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = config.Default()
	}

	pctx := processor.NewContext(cfg.Edit.Exclude, cfg.Edit.SkipCodes)
	chain := processor.Default()
	rep := chain.Process(in.Report, pctx)
	in.Logger.Debug().
		Strs("processors", chain.Names()).
		Int("diagnostics", len(rep.Diagnostics)).
		Int("unused", len(rep.Unused)).
		Msg("report processed")

	fixer := &fix.Fixer{
		MaxFileSize: cfg.Edit.MaxFileSize,
		Atomic:      cfg.Edit.Atomic,
		DryRun:      in.DryRun,
		Logger:      in.Logger,
	}
	if in.DryRun {
		fixer.Overlay = make(map[string][]byte)
	}

	res := &Result{Report: rep}

	if in.RemoveUnused {
		changes, err := runPass(ctx, fixer, groupUnused(rep.Unused), fixer.PruneIgnores)
		res.Pruned = changes
		if err != nil {
			return res, err
		}
		in.Logger.Debug().Int("files", len(changes)).Msg("prune pass complete")
	}

	if in.AddIgnores {
		changes, err := runPass(ctx, fixer, groupDiagnostics(rep.Diagnostics), fixer.AddIgnores)
		res.Added = changes
		if err != nil {
			return res, err
		}
		in.Logger.Debug().Int("files", len(changes)).Msg("add pass complete")
	}

	return res, nil
}

// runPass applies one pass to every file in sorted path order.
func runPass[E any](
	ctx context.Context,
	fixer *fix.Fixer,
	byFile map[string][]E,
	apply func(path string, edits []E) (*fix.FileChange, error),
) ([]*fix.FileChange, error) {
	changes := make([]*fix.FileChange, 0, len(byFile))
	for _, path := range sortedKeys(byFile) {
		if err := ctx.Err(); err != nil {
			return changes, err
		}
		fc, err := apply(path, byFile[path])
		if err != nil {
			return changes, err
		}
		if fixer.Overlay != nil {
			fixer.Overlay[path] = fc.ModifiedContent
		}
		changes = append(changes, fc)
	}
	return changes, nil
}

// ReadReport loads and parses the report at path.
func ReadReport(path string) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return report.Parse(string(data))
}

// GenerateReport runs the checker and saves its report to cfg.Report.Path.
func GenerateReport(ctx context.Context, gen mypy.Generator, cfg *config.Config) error {
	flags, err := mypy.SplitFlags(cfg.Mypy.Flags)
	if err != nil {
		return err
	}
	out, err := gen.Generate(ctx, cfg.Mypy.Path, flags)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Report.Path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
