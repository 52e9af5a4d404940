package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/versionid"
)

const (
	// DefaultBackupSuffix is appended to pages replaced by Rebuild.
	DefaultBackupSuffix = ".redoc"
	// DefaultConcurrency bounds concurrent page writes.
	DefaultConcurrency = 4
)

// DefaultCleanup lists the globs deleted after a rebuild.
var DefaultCleanup = []string{"**/*.backup"}

// RebuildOptions controls Rebuild.
type RebuildOptions struct {
	// BackupSuffix is appended to existing pages before they are replaced.
	// Empty disables backups. A page is backed up only once.
	BackupSuffix string
	// Cleanup globs, relative to the docs directory, of files to delete.
	Cleanup []string
	// Concurrency bounds concurrent version page writes. Zero means DefaultConcurrency.
	Concurrency int
}

// RebuildResult reports what Rebuild did.
type RebuildResult struct {
	Rebuilt  []string
	Skipped  []string
	BackedUp []string
	Cleaned  []string
}

// Rebuild regenerates every version page listed in versions.json, then the
// landing page and the shared script. Versions without an OpenAPI document
// are skipped.
func (s *Site) Rebuild(ctx context.Context, opts RebuildOptions) (RebuildResult, error) {
	var res RebuildResult

	versions, err := s.store.Load(ctx)
	if err != nil {
		return res, err
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, version := range versionid.SortOldestFirst(versions) {
		g.Go(func() error {
			if err := versionid.Validate(version); err != nil {
				s.logger.Warn("skipping invalid manifest entry", "version", version, "error", err)
				mu.Lock()
				res.Skipped = append(res.Skipped, version)
				mu.Unlock()
				return nil
			}

			ok, err := s.exists(gctx, filepath.Join(s.VersionDir(version), SpecFile))
			if err != nil {
				return fmt.Errorf("version %s: %w", version, err)
			}
			if !ok {
				s.logger.Info("skipping version without OpenAPI document", "version", version)
				mu.Lock()
				res.Skipped = append(res.Skipped, version)
				mu.Unlock()
				return nil
			}

			page := filepath.Join(s.VersionDir(version), IndexFile)
			backedUp, err := s.backup(gctx, page, opts.BackupSuffix)
			if err != nil {
				return err
			}
			if err := s.WriteVersionPage(gctx, version, versions); err != nil {
				return err
			}

			mu.Lock()
			res.Rebuilt = append(res.Rebuilt, version)
			if backedUp {
				res.BackedUp = append(res.BackedUp, page)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	landing := filepath.Join(s.dir, IndexFile)
	backedUp, err := s.backup(ctx, landing, opts.BackupSuffix)
	if err != nil {
		return res, err
	}
	if backedUp {
		res.BackedUp = append(res.BackedUp, landing)
	}
	if err := s.WriteShared(ctx, versions); err != nil {
		return res, err
	}

	cleaned, err := s.cleanup(ctx, opts.Cleanup)
	if err != nil {
		return res, err
	}
	res.Cleaned = cleaned

	slices.SortFunc(res.Rebuilt, versionid.Compare)
	slices.SortFunc(res.Skipped, versionid.Compare)
	slices.Sort(res.BackedUp)

	s.logger.Info("rebuilt docs tree",
		"rebuilt", len(res.Rebuilt),
		"skipped", len(res.Skipped),
		"backups", len(res.BackedUp),
		"cleaned", len(res.Cleaned))
	return res, nil
}

// backup copies path to path+suffix unless the backup already exists or
// path does not exist.
func (s *Site) backup(ctx context.Context, path, suffix string) (bool, error) {
	if suffix == "" {
		return false, nil
	}
	dst := path + suffix

	if ok, err := s.exists(ctx, dst); err != nil || ok {
		return false, err
	}

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, classifyFileError(err, path, dst, "backup")
	}
	if err := s.fs.WriteFile(ctx, dst, data, core.PermFile); err != nil {
		return false, classifyFileError(err, path, dst, "backup")
	}
	s.logger.Debug("backed up page", "path", path, "backup", dst)
	return true, nil
}

// cleanup deletes the files matching patterns and returns their paths.
func (s *Site) cleanup(ctx context.Context, patterns []string) ([]string, error) {
	var removed []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return removed, fmt.Errorf("invalid cleanup pattern %q", pattern)
		}
		matches, err := doublestar.Glob(s.tree, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return removed, fmt.Errorf("cleanup pattern %q: %w", pattern, err)
		}
		for _, rel := range matches {
			path := filepath.Join(s.dir, filepath.FromSlash(rel))
			if err := s.fs.Remove(ctx, path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return removed, classifyFileError(err, "", path, "remove")
			}
			removed = append(removed, path)
		}
	}
	slices.Sort(removed)
	return removed, nil
}
