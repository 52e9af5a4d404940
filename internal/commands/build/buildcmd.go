package build

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/site"
)

// Run returns the "build" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Regenerate every page of the docs tree from versions.json",
		UsageText: "vdocs build [--watch] [--debounce 500ms]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and rebuild whenever versions.json changes",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a watched change triggers a rebuild",
				Value: site.DefaultDebounce,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runBuildCmd(ctx, cmd, cfg)
		},
	}
}

func runBuildCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	// Pages are regenerated in place; backups and cleanup belong to migrate.
	opts := execCtx.Config.RebuildOptions()
	opts.BackupSuffix = ""
	opts.Cleanup = nil

	res, err := execCtx.Site.Rebuild(ctx, opts)
	if err != nil {
		return err
	}
	printBuildResult(res)

	if !cmd.Bool("watch") {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.PrintInfo(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", execCtx.Site.Store().Path()))
	return execCtx.Site.Watch(ctx, site.WatchOptions{
		Debounce: cmd.Duration("debounce"),
		Rebuild:  opts,
		OnRebuild: func(res site.RebuildResult, err error) {
			if err != nil {
				printer.PrintErr(err)
				return
			}
			printBuildResult(res)
		},
	})
}

func printBuildResult(res site.RebuildResult) {
	if len(res.Rebuilt) == 0 {
		printer.PrintWarning("No version pages generated.")
	} else {
		printer.PrintSuccess(fmt.Sprintf("Built %d version page(s): %s", len(res.Rebuilt), strings.Join(res.Rebuilt, ", ")))
	}
	if len(res.Skipped) > 0 {
		printer.PrintWarning(fmt.Sprintf("Skipped (no %s): %s", site.SpecFile, strings.Join(res.Skipped, ", ")))
	}
}
