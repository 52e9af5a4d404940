package remove

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/site"
	"github.com/indaco/vdocs/internal/tui"
)

// Seams for tests.
var (
	isInteractive = tui.IsInteractive
	newPrompter   = tui.DefaultPrompter
)

// Run returns the "remove" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Delete a published version and drop it from versions.json",
		UsageText: "vdocs remove [--keep-if-missing] [--yes] <version>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep-if-missing",
				Usage: "Only update versions.json when the version directory does not exist",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runRemoveCmd(ctx, cmd, cfg)
		},
	}
}

func runRemoveCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	version := cmd.Args().First()
	if version == "" {
		return fmt.Errorf("missing version argument")
	}

	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") && isInteractive() {
		ok, err := newPrompter().Confirm(ctx, fmt.Sprintf("Delete %s from %s?", version, execCtx.DocsDir))
		if err != nil {
			return err
		}
		if !ok {
			printer.PrintWarning("Aborted, nothing deleted.")
			return nil
		}
	}

	res, err := execCtx.Site.Delete(ctx, version, site.DeleteOptions{
		KeepIfMissing: cmd.Bool("keep-if-missing"),
	})
	if err != nil {
		return err
	}

	switch {
	case res.DirRemoved && res.ManifestUpdated:
		printer.PrintSuccess(fmt.Sprintf("Removed %s", version))
	case res.DirRemoved:
		printer.PrintSuccess(fmt.Sprintf("Removed directory of %s (it was not listed in versions.json)", version))
	case res.ManifestUpdated:
		printer.PrintSuccess(fmt.Sprintf("Removed %s from versions.json (no directory found)", version))
	default:
		printer.PrintWarning(fmt.Sprintf("Nothing to remove for %s", version))
	}

	if len(res.Versions) > 0 {
		printer.PrintFaint(fmt.Sprintf("Latest: %s", res.Versions.Latest()))
	}
	return nil
}
