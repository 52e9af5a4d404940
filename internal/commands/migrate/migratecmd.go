package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
)

// Run returns the "migrate" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Regenerate pages of an existing docs tree, keeping a backup of each replaced page",
		UsageText: "vdocs migrate [--backup-suffix .redoc] [--no-backup] [--no-cleanup] [--concurrency n]\n\n" +
			"A page is backed up only once: an existing backup is never overwritten.\n" +
			"Afterwards files matching rebuild.cleanup (default **/*.backup) are deleted.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backup-suffix",
				Usage: "Suffix appended to replaced pages (default: rebuild.backup_suffix or .redoc)",
			},
			&cli.BoolFlag{
				Name:  "no-backup",
				Usage: "Replace pages without keeping a backup",
			},
			&cli.BoolFlag{
				Name:  "no-cleanup",
				Usage: "Keep files matching the cleanup globs",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Version pages written in parallel (default: rebuild.concurrency or 4)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runMigrateCmd(ctx, cmd, cfg)
		},
	}
}

func runMigrateCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	opts := execCtx.Config.RebuildOptions()
	if cmd.IsSet("backup-suffix") {
		opts.BackupSuffix = cmd.String("backup-suffix")
	}
	if cmd.Bool("no-backup") {
		opts.BackupSuffix = ""
	}
	if cmd.Bool("no-cleanup") {
		opts.Cleanup = nil
	}
	if cmd.IsSet("concurrency") {
		n := cmd.Int("concurrency")
		if n < 1 {
			return fmt.Errorf("--concurrency must be at least 1, got %d", n)
		}
		opts.Concurrency = n
	}

	res, err := execCtx.Site.Rebuild(ctx, opts)
	if err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Migrated %d version(s)", len(res.Rebuilt)))
	for _, v := range res.Rebuilt {
		fmt.Printf("  %s\n", printer.Check(true, v))
	}
	if len(res.Skipped) > 0 {
		printer.PrintWarning(fmt.Sprintf("Skipped %d version(s) without an OpenAPI document: %s", len(res.Skipped), strings.Join(res.Skipped, ", ")))
	}
	if len(res.BackedUp) > 0 {
		printer.PrintFaint(fmt.Sprintf("Backed up %d page(s) with suffix %s", len(res.BackedUp), opts.BackupSuffix))
	}
	if len(res.Cleaned) > 0 {
		printer.PrintFaint(fmt.Sprintf("Removed %d file(s): %s", len(res.Cleaned), strings.Join(res.Cleaned, ", ")))
	}
	return nil
}
