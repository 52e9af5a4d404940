package initialize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
)

// Run returns the "init" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create an empty docs tree and a .vdocs.yaml configuration file",
		UsageText: "vdocs init [--title text] [--site-url url] [--force] [--no-config]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "title",
				Usage: "Title shown on the generated pages",
			},
			&cli.StringFlag{
				Name:  "site-url",
				Usage: "Public URL of the docs site",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
			&cli.BoolFlag{
				Name:  "no-config",
				Usage: "Do not write a configuration file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInitCmd(ctx, cmd, cfg)
		},
	}
}

func runInitCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	local := config.Default()
	if cfg != nil {
		c := *cfg
		local = &c
	}
	if cmd.IsSet("title") {
		local.Title = cmd.String("title")
	}
	if cmd.IsSet("site-url") {
		local.SiteURL = cmd.String("site-url")
	}
	if err := local.Validate(); err != nil {
		return err
	}

	execCtx, err := clix.GetExecutionContext(ctx, cmd, local)
	if err != nil {
		return err
	}

	versions, err := execCtx.Site.Init(ctx)
	if err != nil {
		return err
	}
	printer.PrintSuccess(fmt.Sprintf("Initialized docs tree in %s (%d version(s) published)", execCtx.DocsDir, len(versions)))

	if cmd.Bool("no-config") {
		return nil
	}

	_, err = execCtx.FS.Stat(ctx, config.DefaultFile)
	switch {
	case err == nil && !cmd.Bool("force"):
		printer.PrintFaint(fmt.Sprintf("%s already exists, left unchanged (use --force to overwrite)", config.DefaultFile))
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to check %s: %w", config.DefaultFile, err)
	}

	local.DocsDir = execCtx.DocsDir
	saver := config.NewConfigSaver(&commentedMarshaler{}, nil, nil)
	if err := saver.SaveTo(local, config.DefaultFile); err != nil {
		return err
	}
	printer.PrintSuccess(fmt.Sprintf("Wrote %s", config.DefaultFile))
	return nil
}
