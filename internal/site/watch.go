package site

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/indaco/vdocs/internal/manifest"
)

// DefaultDebounce is how long Watch waits for more manifest changes.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions controls Watch.
type WatchOptions struct {
	Debounce time.Duration
	Rebuild  RebuildOptions
	// OnRebuild receives the outcome of every rebuild triggered by a change.
	OnRebuild func(RebuildResult, error)
}

// Watch rebuilds the pages whenever versions.json changes, until ctx is
// canceled. Rebuild errors are reported to OnRebuild and do not stop
// watching.
func (s *Site) Watch(ctx context.Context, opts WatchOptions) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	s.logger.Info("watching manifest", "path", s.store.Path(), "debounce", debounce)

	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != manifest.FileName {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				s.logger.Debug("manifest change detected", "op", event.Op.String())
				pending = true
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			res, err := s.Rebuild(ctx, opts.Rebuild)
			if err != nil {
				s.logger.Warn("rebuild failed", "error", err)
			}
			if opts.OnRebuild != nil {
				opts.OnRebuild(res, err)
			}
		}
	}
}
