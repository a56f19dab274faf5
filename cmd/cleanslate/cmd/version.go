package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/cleanslate/internal/config"
	"github.com/wharflab/cleanslate/internal/version"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output version information as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			if cmd.Bool("json") {
				// The checker lookup follows the discovered config; a broken
				// config falls back to the default command.
				command := config.Default().Mypy.Command
				if cfg, err := config.Load("."); err == nil {
					command = cfg.Mypy.Command
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo(command))
			}
			_, err := fmt.Fprintf(w, "cleanslate version %s\n", version.Version())
			return err
		},
	}
}
