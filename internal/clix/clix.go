// Package clix resolves the per-invocation state shared by the commands.
package clix

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/loader"
	"github.com/indaco/vdocs/internal/site"
	"github.com/indaco/vdocs/internal/storage"
)

// NewStorageFn builds the object storage client. Tests replace it.
var NewStorageFn = storage.NewMinIO

// ExecutionContext holds what a command needs to work on one docs tree.
type ExecutionContext struct {
	Config  *config.Config
	DocsDir string
	FS      core.FileSystem
	Logger  *slog.Logger
	Site    *site.Site
}

// GetExecutionContext resolves the docs directory (the --docs-dir flag when
// given, then the configuration) and builds the Site for it.
func GetExecutionContext(_ context.Context, cmd *cli.Command, cfg *config.Config) (*ExecutionContext, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	docsDir := cfg.DocsDir
	if cmd.IsSet("docs-dir") || docsDir == "" {
		docsDir = cmd.String("docs-dir")
	}
	if docsDir == "" {
		docsDir = config.DefaultDocsDir
	}

	opts := cfg.SiteOptions()
	opts.DocsDir = docsDir

	fsys := core.NewOSFileSystem()
	logger := slog.Default()
	return &ExecutionContext{
		Config:  cfg,
		DocsDir: docsDir,
		FS:      fsys,
		Logger:  logger,
		Site:    site.New(fsys, opts, logger),
	}, nil
}

// Storage returns a client for the configured bucket.
func (e *ExecutionContext) Storage() (storage.Storage, error) {
	return NewStorageFn(e.Config.StorageConfig())
}

// Fetcher returns a fetcher for http(s), file and, when a bucket is
// configured, s3 locations.
func (e *ExecutionContext) Fetcher() loader.Fetcher {
	mux := &loader.Mux{
		HTTP: loader.NewHTTPFetcher(&http.Client{Timeout: core.TimeoutFetch}),
		File: loader.NewFileFetcher(e.FS),
	}
	if sc := e.Config.StorageConfig(); sc.Enabled() {
		if store, err := NewStorageFn(sc); err == nil {
			mux.Object = loader.NewObjectFetcher(store)
		} else {
			e.Logger.Warn("object storage unavailable", "error", err)
		}
	}
	return mux
}
