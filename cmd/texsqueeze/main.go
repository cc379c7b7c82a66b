package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/woozymasta/ktx/internal/logger"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "texsqueeze",
		Usage: "Compress images and pack block-compressed textures into KTX containers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config.yaml",
				Value: configPath(),
			},
			&cli.StringFlag{Name: "log-level", Usage: "debug|info|warn|error", Value: "info"},
			&cli.StringFlag{Name: "log-format", Usage: "text|json", Value: "text"},
		},
		Before: setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			compressCmd(),
			packCmd(),
			inspectCmd(),
			extractCmd(),
		},
	}
}

// setup loads the config file and installs the logger for subcommands.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(cmd.String("config"))
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	level := cmd.String("log-level")
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		level = cfg.LogLevel
	}
	format := cmd.String("log-format")
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		format = cfg.LogFormat
	}

	log := logger.Format(os.Stderr, format, logger.ParseLevel(level))
	ctx = logger.WithContext(ctx, log)
	ctx = withConfig(ctx, cfg)

	return ctx, nil
}
