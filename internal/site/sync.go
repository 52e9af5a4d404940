package site

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/storage"
)

// DefaultSyncExcludes lists the globs never uploaded.
var DefaultSyncExcludes = []string{"**/*.backup", "**/*.redoc", "**/.*"}

const (
	cacheNoCache = "no-cache"
	cacheDefault = "public, max-age=300"
)

// SyncOptions controls Sync.
type SyncOptions struct {
	// Prefix is prepended to every object key.
	Prefix string
	// Exclude globs, relative to the docs directory.
	Exclude []string
}

// SyncResult lists uploaded object keys.
type SyncResult struct {
	Uploaded []string
	Skipped  []string
	Bytes    int64
}

// Sync uploads the docs tree to store. versions.json and index pages are
// uploaded with no-cache so new versions appear immediately.
func (s *Site) Sync(ctx context.Context, store storage.Storage, opts SyncOptions) (SyncResult, error) {
	var res SyncResult

	excludes := opts.Exclude
	if excludes == nil {
		excludes = DefaultSyncExcludes
	}
	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return res, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	if err := store.EnsureBucket(ctx); err != nil {
		return res, fmt.Errorf("failed to prepare bucket %s: %w", store.Bucket(), err)
	}

	var files []string
	err := doublestar.GlobWalk(s.tree, "**", func(rel string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if matchAny(excludes, rel) {
			res.Skipped = append(res.Skipped, rel)
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}
	slices.Sort(files)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		src := filepath.Join(s.dir, filepath.FromSlash(rel))
		data, err := s.fs.ReadFile(ctx, src)
		if err != nil {
			return res, classifyFileError(err, src, rel, "read")
		}

		key := objectKey(opts.Prefix, rel)
		putCtx, cancel := context.WithTimeout(ctx, core.TimeoutStorage)
		_, err = store.Put(putCtx, key, bytes.NewReader(data), storage.PutObjectOptions{
			Size:         int64(len(data)),
			ContentType:  contentType(rel),
			CacheControl: cacheControl(rel),
		})
		cancel()
		if err != nil {
			return res, fmt.Errorf("failed to upload %s: %w", key, err)
		}

		s.logger.Debug("uploaded object", "key", key, "bytes", len(data))
		res.Uploaded = append(res.Uploaded, key)
		res.Bytes += int64(len(data))
	}

	s.logger.Info("synced docs tree", "bucket", store.Bucket(), "objects", len(res.Uploaded), "bytes", res.Bytes)
	return res, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func objectKey(prefix, rel string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func cacheControl(name string) string {
	base := path.Base(name)
	if base == manifest.FileName || base == IndexFile {
		return cacheNoCache
	}
	return cacheDefault
}
