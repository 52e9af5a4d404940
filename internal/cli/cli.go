package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/commands/build"
	"github.com/indaco/vdocs/internal/commands/detectcmd"
	"github.com/indaco/vdocs/internal/commands/doctorcmd"
	"github.com/indaco/vdocs/internal/commands/initialize"
	"github.com/indaco/vdocs/internal/commands/latest"
	"github.com/indaco/vdocs/internal/commands/list"
	"github.com/indaco/vdocs/internal/commands/migrate"
	"github.com/indaco/vdocs/internal/commands/open"
	"github.com/indaco/vdocs/internal/commands/publish"
	"github.com/indaco/vdocs/internal/commands/remove"
	"github.com/indaco/vdocs/internal/commands/resolve"
	"github.com/indaco/vdocs/internal/commands/synccmd"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/tui"
	"github.com/indaco/vdocs/internal/version"
)

// New builds and returns the root CLI command. cfg is filled in by the
// Before hook once --config is known, so every subcommand sees the loaded
// configuration.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "vdocs",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Publish and browse versioned API documentation",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "docs-dir",
				Aliases:     []string{"d"},
				Usage:       "Docs directory holding versions.json",
				DefaultText: config.DefaultDocsDir,
			},
			&urfavecli.StringFlag{
				Name:        "config",
				Usage:       "Configuration file",
				DefaultText: config.DefaultFile,
			},
			&urfavecli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&urfavecli.BoolFlag{
				Name:  "verbose",
				Usage: "Log diagnostics to stderr",
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			return ctx, setup(cmd, cfg)
		},
		Commands: []*urfavecli.Command{
			initialize.Run(cfg),
			publish.Run(cfg),
			remove.Run(cfg),
			list.Run(cfg),
			latest.Run(cfg),
			build.Run(cfg),
			migrate.Run(cfg),
			resolve.Run(cfg),
			open.Run(cfg),
			detectcmd.Run(cfg),
			doctorcmd.Run(cfg),
			synccmd.Run(cfg),
		},
	}
}

func setup(cmd *urfavecli.Command, cfg *config.Config) error {
	printer.SetNoColor(cmd.Bool("no-color"))

	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	loaded, err := config.LoadConfigFn(cmd.String("config"))
	if err != nil {
		return err
	}
	*cfg = *loaded

	if err := tui.ValidateTheme(cfg.GetTheme()); err != nil {
		return err
	}
	tui.SetTheme(cfg.GetTheme())
	return nil
}
