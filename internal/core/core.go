// Package core holds the small set of interfaces and constants shared by the
// vdocs packages so they can be exercised against fakes in tests.
package core

import (
	"context"
	"io/fs"
	"time"
)

// FileMode is an alias kept so callers do not need to import io/fs.
type FileMode = fs.FileMode

const (
	// PermOwnerRW is used for configuration files.
	PermOwnerRW FileMode = 0o600
	// PermFile is used for published site files, which must be world readable.
	PermFile FileMode = 0o644
	// PermDir is used for directories of the docs tree.
	PermDir FileMode = 0o755
)

const (
	// TimeoutFetch bounds a single manifest fetch attempt.
	TimeoutFetch = 10 * time.Second
	// TimeoutStorage bounds a single object storage round trip.
	TimeoutStorage = 30 * time.Second
	// TimeoutBrowser bounds launching the system browser.
	TimeoutBrowser = 5 * time.Second
)

// FileSystem abstracts the file operations performed on a docs tree.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm FileMode) error
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
	MkdirAll(ctx context.Context, path string, perm FileMode) error
	Remove(ctx context.Context, path string) error
	RemoveAll(ctx context.Context, path string) error
}

// Marshaler serializes configuration values.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
}
