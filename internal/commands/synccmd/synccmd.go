package synccmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/site"
	"github.com/indaco/vdocs/internal/storage"
	"github.com/indaco/vdocs/internal/tui"
)

// NotConfiguredError is returned when sync runs without a storage endpoint
// or bucket.
type NotConfiguredError struct{}

func (e *NotConfiguredError) Error() string {
	return "object storage is not configured"
}

// Suggestion returns a hint for fixing the error.
func (e *NotConfiguredError) Suggestion() string {
	return "set storage.endpoint and storage.bucket in .vdocs.yaml, or VDOCS_S3_ENDPOINT and VDOCS_S3_BUCKET"
}

// Run returns the "sync" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Upload the docs tree to an S3-compatible bucket",
		UsageText: "vdocs sync [--prefix path] [--dry-run]\n\n" +
			"versions.json and index pages are uploaded with Cache-Control: no-cache.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Key prefix inside the bucket (default: storage.prefix)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List what would be uploaded without contacting the bucket",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSyncCmd(ctx, cmd, cfg)
		},
	}
}

func runSyncCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	store, err := openStore(execCtx, dryRun)
	if err != nil {
		return err
	}

	opts := execCtx.Config.SyncOptions()
	if cmd.IsSet("prefix") {
		opts.Prefix = cmd.String("prefix")
	}

	title := fmt.Sprintf("Uploading %s to %s", execCtx.DocsDir, store.Bucket())
	var res site.SyncResult
	err = tui.WithSpinner(ctx, title, func(ctx context.Context) error {
		var err error
		res, err = execCtx.Site.Sync(ctx, store, opts)
		return err
	})
	if err != nil {
		return err
	}

	verb := "Uploaded"
	if dryRun {
		verb = "Would upload"
	}
	for _, key := range res.Uploaded {
		fmt.Printf("  %s\n", printer.Check(true, key))
	}
	for _, rel := range res.Skipped {
		fmt.Printf("  %s\n", printer.Faint("skipped "+rel))
	}
	printer.PrintSuccess(fmt.Sprintf("%s %d object(s), %s, to bucket %s",
		verb, len(res.Uploaded), humanize.Bytes(uint64(res.Bytes)), store.Bucket()))
	return nil
}

func openStore(execCtx *clix.ExecutionContext, dryRun bool) (storage.Storage, error) {
	sc := execCtx.Config.StorageConfig()
	if dryRun {
		bucket := sc.Bucket
		if bucket == "" {
			bucket = "dry-run"
		}
		return storage.NewMemory(bucket), nil
	}
	if !sc.Enabled() {
		return nil, &NotConfiguredError{}
	}
	return execCtx.Storage()
}
