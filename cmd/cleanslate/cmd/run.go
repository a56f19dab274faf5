package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/cleanslate/internal/config"
	"github.com/wharflab/cleanslate/internal/logging"
	"github.com/wharflab/cleanslate/internal/mypy"
	"github.com/wharflab/cleanslate/internal/pipeline"
	"github.com/wharflab/cleanslate/internal/report"
	"github.com/wharflab/cleanslate/internal/reporter"
)

// Exit codes
const (
	ExitSuccess     = 0 // Run completed (including runs with nothing to change)
	ExitFailure     = 1 // Checker, report, or file edit failure
	ExitConfigError = 2 // Config or usage error
	ExitNoIssues    = 3 // The report says the checker found no issues
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Generate a mypy report and apply it to the source files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "generate-report",
				Aliases: []string{"r"},
				Usage:   "Run mypy and save its report",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Code path mypy is pointed at (default: .)",
			},
			&cli.BoolFlag{
				Name:    "add-type-ignore",
				Aliases: []string{"a"},
				Usage:   "Add \"# type: ignore[<code>]\" to every reported line",
			},
			&cli.BoolFlag{
				Name:  "remove-unused",
				Usage: "Prune suppressions mypy reports as unused (needs --warn-unused-ignores)",
			},
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "Report file to write and read (default: " + config.DefaultReportPath + ")",
			},
			&cli.StringFlag{
				Name:  "mypy-flags",
				Usage: "Flags passed to mypy as one quoted string (default: --strict)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Usage:   "Compute every edit without writing any file",
				Sources: cli.EnvVars("CLEANSLATE_DRY_RUN"),
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "Print a unified diff of the edits",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob pattern for files that are never edited (can be repeated)",
			},
			&cli.StringSliceFlag{
				Name:  "skip-code",
				Usage: "Error code that is never suppressed (can be repeated)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Summary format: text, json, github-actions, markdown",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Summary destination: stdout, stderr, or file path",
				Value: "stdout",
			},
			&cli.BoolFlag{
				Name:  "hide-edits",
				Usage: "Only print the summary line (text format)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: console, json",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
		},
		Action: runRun,
	}
}

func runRun(ctx context.Context, cmd *cli.Command) error {
	generate := cmd.Bool("generate-report")
	addIgnores := cmd.Bool("add-type-ignore")
	removeUnused := cmd.Bool("remove-unused")
	if !generate && !addIgnores && !removeUnused {
		fmt.Fprintln(os.Stderr, "Error: nothing to do; pass --generate-report, --add-type-ignore or --remove-unused")
		return cli.Exit("", ExitConfigError)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	logger, err := logging.New(os.Stderr, logging.Options{
		Level:   cfg.Log.Level,
		Format:  logging.Format(cfg.Log.Format),
		NoColor: cmd.Bool("no-color"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if cfg.ConfigFile != "" {
		logger.Debug().Str("path", cfg.ConfigFile).Msg("loaded config")
	}

	if generate {
		runner := &mypy.Runner{Command: cfg.Mypy.Command, Logger: logger}
		if err := pipeline.GenerateReport(ctx, runner, cfg); err != nil {
			return exitWithError(err)
		}
		logger.Info().Str("report", cfg.Report.Path).Msg("mypy report saved")
	}

	if !addIgnores && !removeUnused {
		return nil
	}

	rep, err := pipeline.ReadReport(cfg.Report.Path)
	if err != nil {
		return exitWithError(err)
	}
	logger.Debug().
		Int("diagnostics", len(rep.Diagnostics)).
		Int("unused", len(rep.Unused)).
		Int("notes", rep.Notes).
		Msg("report parsed")

	dryRun := cmd.Bool("dry-run")
	res, err := pipeline.Run(ctx, pipeline.Input{
		Report:       rep,
		Config:       cfg,
		RemoveUnused: removeUnused,
		AddIgnores:   addIgnores,
		DryRun:       dryRun,
		Logger:       logger,
	})
	if err != nil {
		if res != nil && !dryRun {
			if changed := res.Totals().Changed; changed > 0 {
				logger.Warn().Int("files", changed).Msg("files rewritten before the failure keep their edits")
			}
		}
		return exitWithError(err)
	}

	return writeOutput(cmd, cfg, res, reporter.Metadata{
		ReportPath: cfg.Report.Path,
		DryRun:     dryRun,
	})
}

// writeOutput prints the optional diff followed by the summary.
func writeOutput(cmd *cli.Command, cfg *config.Config, res *pipeline.Result, meta reporter.Metadata) error {
	formatType, err := reporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter, err := reporter.GetWriter(cmd.String("output"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output: %v\n", err)
		}
	}()
	if writer == os.Stdout && cmd.Root().Writer != nil {
		writer = cmd.Root().Writer
	}

	if cmd.Bool("diff") {
		if err := reporter.WriteDiff(writer, res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write diff: %v\n", err)
			return cli.Exit("", ExitFailure)
		}
	}

	opts := reporter.Options{
		Format:    formatType,
		Writer:    writer,
		ShowEdits: cfg.Output.ShowEdits && !cmd.Bool("hide-edits"),
	}
	if cmd.IsSet("no-color") && cmd.Bool("no-color") {
		noColor := false
		opts.Color = &noColor
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create reporter: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if err := rep.Report(res, meta); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitFailure)
	}
	return nil
}

// exitWithError prints err and maps it to an exit code.
func exitWithError(err error) error {
	var (
		noIssues   *report.NoIssuesError
		flagsErr   *mypy.FlagsError
		loadErr    *config.LoadError
		invalidErr *config.ValidationError
	)
	switch {
	case errors.As(err, &noIssues):
		fmt.Fprintf(os.Stderr, "mypy reported no issues, nothing to do (%s)\n", noIssues.Line)
		return cli.Exit("", ExitNoIssues)
	case errors.As(err, &flagsErr), errors.As(err, &loadErr), errors.As(err, &invalidErr):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitFailure)
	}
}

// loadConfig resolves configuration for the command, applying CLI overrides.
// Only explicitly set flags override config values.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	target := "."
	if cmd.IsSet("path") {
		target = cmd.String("path")
	}
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = config.Discover(target)
	}

	overrides := map[string]any{}
	if cmd.IsSet("path") {
		overrides["mypy.path"] = target
	}
	stringFlags := map[string]string{
		"report":     "report.path",
		"mypy-flags": "mypy.flags",
		"format":     "output.format",
		"log-level":  "log.level",
		"log-format": "log.format",
	}
	for flag, key := range stringFlags {
		if cmd.IsSet(flag) {
			overrides[key] = cmd.String(flag)
		}
	}
	if cmd.IsSet("exclude") {
		overrides["edit.exclude"] = cmd.StringSlice("exclude")
	}
	if cmd.IsSet("skip-code") {
		overrides["edit.skip-codes"] = cmd.StringSlice("skip-code")
	}

	return config.LoadWithOverrides(configPath, overrides)
}
