package list

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/site"
)

// Output formats.
const (
	FormatTable = "table"
	FormatPlain = "plain"
	FormatJSON  = "json"
)

// Run returns the "list" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List published versions, latest first",
		UsageText: "vdocs list [--format table|plain|json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, plain or json",
				Value:   FormatTable,
				Validator: func(s string) error {
					switch s {
					case FormatTable, FormatPlain, FormatJSON:
						return nil
					}
					return fmt.Errorf("unsupported format %q", s)
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runListCmd(ctx, cmd, cfg)
		},
	}
}

func runListCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	versions, err := execCtx.Site.Store().Load(ctx)
	if err != nil {
		return err
	}

	switch cmd.String("format") {
	case FormatJSON:
		data, err := versions.Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	case FormatPlain:
		for _, v := range versions {
			fmt.Println(v)
		}
	default:
		if len(versions) == 0 {
			printer.PrintWarning("No versions published yet.")
			return nil
		}
		renderTable(ctx, execCtx, versions)
	}
	return nil
}

// renderTable prints one row per version with the state of its files.
func renderTable(ctx context.Context, execCtx *clix.ExecutionContext, versions manifest.Manifest) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Version", "Page", "OpenAPI", "info.version"})

	for i, v := range versions {
		label := v
		if i == 0 {
			label = v + " " + printer.Success("(latest)")
		}

		page := fileState(ctx, execCtx, filepath.Join(execCtx.Site.VersionDir(v), site.IndexFile))
		spec := fileState(ctx, execCtx, filepath.Join(execCtx.Site.VersionDir(v), site.SpecFile))

		stamp, err := execCtx.Site.SpecVersion(ctx, v)
		if err != nil {
			stamp = "-"
		}
		t.AppendRow(table.Row{i + 1, label, page, spec, stamp})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func fileState(ctx context.Context, execCtx *clix.ExecutionContext, path string) string {
	if _, err := execCtx.FS.Stat(ctx, path); err != nil {
		return printer.Error("missing")
	}
	return "yes"
}
