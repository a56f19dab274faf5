package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/cleanslate/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "cleanslate",
		Usage:   "Bring a Python codebase to a clean mypy baseline",
		Version: version.Version(),
		Description: `cleanslate runs mypy, then silences every reported error in place with a
"# type: ignore[<code>]" annotation, and prunes annotations that mypy
reports as unused. New code is held to the checker's standard while the
existing backlog stays visible in the source.

Examples:
  cleanslate run -r -a
  cleanslate run -r -a --remove-unused --mypy-flags "--strict --warn-unused-ignores"
  cleanslate run -a --report build/mypy.txt --dry-run --diff`,
		Commands: []*cli.Command{
			runCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
