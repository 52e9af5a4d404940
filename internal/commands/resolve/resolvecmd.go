package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/resolver"
)

// Run returns the "resolve" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Print the address a version switch navigates to",
		UsageText: "vdocs resolve [--current version] [--explain] <page-url> <version>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "current",
				Aliases: []string{"c"},
				Usage:   "Version currently displayed (no navigation when equal to <version>)",
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Also print the detected layout and base path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runResolveCmd(ctx, cmd, cfg)
		},
	}
}

func runResolveCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	if cmd.Args().Len() != 2 {
		return errors.New("expected <page-url> and <version> arguments")
	}
	rawURL, requested := cmd.Args().Get(0), cmd.Args().Get(1)

	page, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid page address %q: %w", rawURL, err)
	}
	if page.Path == "" {
		page.Path = "/"
	}

	var navigated string
	nav := resolver.NavigatorFunc(func(_ context.Context, target string) error {
		navigated = target
		return nil
	})

	res := resolver.New(cfg.ResolverPolicy())
	target, moved, err := res.Switch(ctx, nav, page, requested, cmd.String("current"))
	if err != nil {
		return err
	}
	if !moved {
		printer.PrintInfo(fmt.Sprintf("Already on %s, nothing to do.", requested))
		return nil
	}

	fmt.Println(navigated)
	if cmd.Bool("explain") {
		printer.PrintFaint(fmt.Sprintf("layout: %s", target.Layout))
		printer.PrintFaint(fmt.Sprintf("base: %s", target.Base))
		printer.PrintFaint(fmt.Sprintf("version segment found: %t", target.Matched))
	}
	return nil
}
