package publish

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/detect"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/site"
)

// Run returns the "publish" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Add a version to the docs tree and regenerate its pages",
		UsageText: "vdocs publish [version] [--spec openapi.json] [--stamp] [--output-latest file] [--from dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "spec",
				Aliases: []string{"s"},
				Usage:   "OpenAPI JSON document to publish (default: keep the one in the version directory)",
			},
			&cli.BoolFlag{
				Name:  "stamp",
				Usage: "Write the version into the document's info.version",
			},
			&cli.StringFlag{
				Name:  "output-latest",
				Usage: "File to write the latest version to",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Directory searched for project files when no version is given",
				Value: ".",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runPublishCmd(ctx, cmd, cfg)
		},
	}
}

// runPublishCmd publishes the version given as argument, or the one
// detected from the project files.
func runPublishCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	version := cmd.Args().First()
	if version == "" {
		sources, err := detect.New(execCtx.FS).Detect(ctx, cmd.String("from"))
		if err != nil {
			return err
		}
		best, err := detect.Best(sources)
		if err != nil {
			return fmt.Errorf("no version given and %w", err)
		}
		printer.PrintFaint(fmt.Sprintf("Detected version %s from %s", best.Version, best.File))
		version = best.Version
	}

	res, err := execCtx.Site.Publish(ctx, site.PublishRequest{
		Version:      version,
		SpecPath:     cmd.String("spec"),
		StampVersion: cmd.Bool("stamp"),
	})
	if err != nil {
		return err
	}

	if res.Added {
		printer.PrintSuccess(fmt.Sprintf("Published %s", res.Version))
	} else {
		printer.PrintInfo(fmt.Sprintf("Updated %s (already published)", res.Version))
	}
	printer.PrintFaint(fmt.Sprintf("Latest: %s (%d versions)", res.Latest, len(res.Versions)))

	if out := cmd.String("output-latest"); out != "" {
		if err := execCtx.FS.WriteFile(ctx, out, []byte(res.Latest), core.PermFile); err != nil {
			return fmt.Errorf("failed to write latest version to %s: %w", out, err)
		}
		printer.PrintFaint(fmt.Sprintf("Latest version written to: %s", out))
	}
	return nil
}
