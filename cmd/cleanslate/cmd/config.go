package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as TOML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Code path used for config discovery",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}

			out, err := cfg.TOML()
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			if cfg.ConfigFile != "" {
				if _, err := fmt.Fprintf(w, "# loaded from %s\n", cfg.ConfigFile); err != nil {
					return err
				}
			}
			_, err = w.Write(out)
			return err
		},
	}
}
