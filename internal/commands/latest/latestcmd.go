package latest

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/core"
)

// Run returns the "latest" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "latest",
		Usage:     "Print the latest published version",
		UsageText: "vdocs latest [--output file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Also write the version to this file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runLatestCmd(ctx, cmd, cfg)
		},
	}
}

// runLatestCmd prints the first manifest entry, or "unknown" for an empty
// manifest. Output is unstyled so scripts can capture it.
func runLatestCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	versions, err := execCtx.Site.Store().Load(ctx)
	if err != nil {
		return err
	}
	latest := versions.Latest()

	if out := cmd.String("output"); out != "" {
		if err := execCtx.FS.WriteFile(ctx, out, []byte(latest), core.PermFile); err != nil {
			return fmt.Errorf("failed to write latest version to %s: %w", out, err)
		}
	}

	fmt.Println(latest)
	return nil
}
