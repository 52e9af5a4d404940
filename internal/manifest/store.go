package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/indaco/vdocs/internal/core"
)

// Store reads and writes the versions.json of one docs tree.
type Store struct {
	fs     core.FileSystem
	path   string
	logger *slog.Logger
}

// NewStore creates a Store for the manifest inside docsDir. A nil logger
// uses slog.Default().
func NewStore(fsys core.FileSystem, docsDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		fs:     fsys,
		path:   filepath.Join(docsDir, FileName),
		logger: logger,
	}
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the manifest. A missing file yields a *NotFoundError and an
// invalid one a *ParseError.
func (s *Store) Load(ctx context.Context) (Manifest, error) {
	data, err := s.fs.ReadFile(ctx, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: s.path}
		}
		return nil, fmt.Errorf("failed to read manifest %q: %w", s.path, err)
	}

	m, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = s.path
		}
		return nil, err
	}

	s.logger.Debug("loaded manifest", "path", s.path, "versions", len(m))
	return m, nil
}

// LoadOrEmpty reads the manifest, treating a missing file as empty.
func (s *Store) LoadOrEmpty(ctx context.Context) (Manifest, error) {
	m, err := s.Load(ctx)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			s.logger.Debug("no existing manifest", "path", s.path)
			return Manifest{}, nil
		}
		return nil, err
	}
	return m, nil
}

// Save writes m, creating the docs directory when needed.
func (s *Store) Save(ctx context.Context, m Manifest) error {
	if err := s.fs.MkdirAll(ctx, filepath.Dir(s.path), core.PermDir); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", s.path, err)
	}

	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := s.fs.WriteFile(ctx, s.path, data, core.PermFile); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", s.path, err)
	}

	s.logger.Debug("saved manifest", "path", s.path, "versions", []string(m))
	return nil
}

// AddVersion adds version, re-sorts newest first, saves, and returns the
// updated manifest. The boolean reports whether version was new.
func (s *Store) AddVersion(ctx context.Context, version string) (Manifest, bool, error) {
	m, err := s.LoadOrEmpty(ctx)
	if err != nil {
		return nil, false, err
	}

	m, added := m.Add(version)
	m = m.Sorted()

	if err := s.Save(ctx, m); err != nil {
		return nil, false, err
	}
	return m, added, nil
}

// RemoveVersion drops version and saves the manifest when it changed. A
// missing manifest is not an error and reports no change.
func (s *Store) RemoveVersion(ctx context.Context, version string) (Manifest, bool, error) {
	m, err := s.Load(ctx)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return Manifest{}, false, nil
		}
		return nil, false, err
	}

	m, removed := m.Remove(version)
	if !removed {
		return m, false, nil
	}

	if err := s.Save(ctx, m); err != nil {
		return nil, false, err
	}
	return m, true, nil
}
