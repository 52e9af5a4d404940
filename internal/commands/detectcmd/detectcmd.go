package detectcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/detect"
	"github.com/indaco/vdocs/internal/printer"
)

// Run returns the "detect" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "Show the versions found in project files and the one publish would use",
		UsageText: "vdocs detect [--quiet] [dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Print only the detected version",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDetectCmd(ctx, cmd, cfg)
		},
	}
}

func runDetectCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	dir := cmd.Args().First()
	if dir == "" {
		dir = "."
	}

	sources, err := detect.New(execCtx.FS).Detect(ctx, dir)
	if err != nil {
		return err
	}
	best, err := detect.Best(sources)
	if err != nil {
		if errors.Is(err, detect.ErrNoVersion) && !cmd.Bool("quiet") {
			printer.PrintWarning(fmt.Sprintf("No version found in %s", dir))
		}
		return err
	}

	if cmd.Bool("quiet") {
		fmt.Println(best.Version)
		return nil
	}

	printer.PrintInfo(fmt.Sprintf("Versions found in %s:", dir))
	fmt.Print(detect.FormatVersionSources(sources))
	printer.PrintSuccess(fmt.Sprintf("publish would use %s from %s", best.Version, best.File))
	return nil
}
