// Package site maintains a versioned docs tree on disk: publishing and
// deleting versions, regenerating pages, watching the manifest and
// uploading the tree to object storage.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/countdown"
	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/render"
	"github.com/indaco/vdocs/internal/versionid"
)

const (
	// IndexFile is the page written in the docs root and in every version directory.
	IndexFile = "index.html"
	// SpecFile is the OpenAPI document of a version.
	SpecFile = "openapi.json"
)

// Options configures a Site.
type Options struct {
	DocsDir string
	Page    render.PageConfig
	// LandingDelay is the landing page countdown. Zero means
	// countdown.DefaultSeconds; a negative delay redirects immediately.
	LandingDelay time.Duration
}

// Site operates on one docs tree.
type Site struct {
	fs     core.FileSystem
	tree   fs.FS
	dir    string
	store  *manifest.Store
	page   render.PageConfig
	delay  time.Duration
	logger *slog.Logger
}

// New creates a Site. A nil logger uses slog.Default().
func New(fsys core.FileSystem, opts Options, logger *slog.Logger) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	delay := opts.LandingDelay
	if delay == 0 {
		delay = countdown.DefaultSeconds * time.Second
	}
	return &Site{
		fs:     fsys,
		tree:   os.DirFS(opts.DocsDir),
		dir:    opts.DocsDir,
		store:  manifest.NewStore(fsys, opts.DocsDir, logger),
		page:   opts.Page,
		delay:  delay,
		logger: logger,
	}
}

// Dir returns the docs directory.
func (s *Site) Dir() string {
	return s.dir
}

// Store returns the manifest store of the tree.
func (s *Site) Store() *manifest.Store {
	return s.store
}

// VersionDir returns the directory of version.
func (s *Site) VersionDir(version string) string {
	return filepath.Join(s.dir, version)
}

// PublishRequest describes a version to publish.
type PublishRequest struct {
	Version string
	// SpecPath is the OpenAPI JSON document to copy. Empty keeps the
	// document already present in the version directory.
	SpecPath string
	// StampVersion writes Version into the document's info.version.
	StampVersion bool
}

// PublishResult reports the state after publishing.
type PublishResult struct {
	Version  string
	Added    bool
	Latest   string
	Versions manifest.Manifest
}

// Publish copies the OpenAPI document, writes the version page, records the
// version in versions.json and refreshes the landing page and script.
// Publishing an existing version rewrites its files without duplicating it.
func (s *Site) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	if err := versionid.Validate(req.Version); err != nil {
		return PublishResult{}, err
	}

	// The document is checked before the version directory exists so a
	// rejected publish leaves the tree untouched.
	spec, err := s.prepareSpec(ctx, req)
	if err != nil {
		return PublishResult{}, err
	}

	versionDir := s.VersionDir(req.Version)
	if err := s.fs.MkdirAll(ctx, versionDir, core.PermDir); err != nil {
		return PublishResult{}, classifyFileError(err, "", versionDir, "create")
	}

	if spec != nil {
		dst := filepath.Join(versionDir, SpecFile)
		if err := s.fs.WriteFile(ctx, dst, spec, core.PermFile); err != nil {
			return PublishResult{}, classifyFileError(err, req.SpecPath, dst, "write")
		}
		s.logger.Debug("installed OpenAPI document", "src", req.SpecPath, "dst", dst)
	}

	versions, added, err := s.store.AddVersion(ctx, req.Version)
	if err != nil {
		return PublishResult{}, err
	}

	if err := s.WriteVersionPage(ctx, req.Version, versions); err != nil {
		return PublishResult{}, err
	}
	if err := s.WriteShared(ctx, versions); err != nil {
		return PublishResult{}, err
	}

	s.logger.Info("published version", "version", req.Version, "added", added, "latest", versions.Latest())
	return PublishResult{
		Version:  req.Version,
		Added:    added,
		Latest:   versions.Latest(),
		Versions: versions,
	}, nil
}

// prepareSpec returns the OpenAPI document to write for req, or nil when
// the document already in place is kept as is.
func (s *Site) prepareSpec(ctx context.Context, req PublishRequest) ([]byte, error) {
	dst := filepath.Join(s.VersionDir(req.Version), SpecFile)

	if req.SpecPath == "" {
		if _, err := s.fs.Stat(ctx, dst); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &MissingSpecError{Version: req.Version, Path: dst}
			}
			return nil, classifyFileError(err, "", dst, "stat")
		}
		if !req.StampVersion {
			return nil, nil
		}
	}

	src := req.SpecPath
	if src == "" {
		src = dst
	}

	data, err := s.fs.ReadFile(ctx, src)
	if err != nil {
		return nil, classifyFileError(err, src, dst, "read")
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%s is not a JSON object", src)
	}

	if req.StampVersion {
		data, err = sjson.SetBytes(data, "info.version", req.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to set info.version in %s: %w", src, err)
		}
	}
	return data, nil
}

// SpecVersion returns info.version of a version's OpenAPI document, or "".
func (s *Site) SpecVersion(ctx context.Context, version string) (string, error) {
	data, err := s.fs.ReadFile(ctx, filepath.Join(s.VersionDir(version), SpecFile))
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(data, "info.version").String(), nil
}

// WriteVersionPage renders docs/<version>/index.html.
func (s *Site) WriteVersionPage(ctx context.Context, version string, versions []string) error {
	var buf bytes.Buffer
	if err := render.VersionPage(&buf, s.page, version, versions); err != nil {
		return err
	}
	return s.writeFile(ctx, filepath.Join(s.VersionDir(version), IndexFile), buf.Bytes())
}

// WriteLanding renders docs/index.html with versions baked in.
func (s *Site) WriteLanding(ctx context.Context, versions []string) error {
	var buf bytes.Buffer
	if err := render.LandingPage(&buf, s.page, versions, s.delay); err != nil {
		return err
	}
	return s.writeFile(ctx, filepath.Join(s.dir, IndexFile), buf.Bytes())
}

// WriteScript writes docs/scripts.js.
func (s *Site) WriteScript(ctx context.Context) error {
	return s.writeFile(ctx, filepath.Join(s.dir, render.ScriptFile), render.Script())
}

// WriteShared refreshes the landing page and the shared script.
func (s *Site) WriteShared(ctx context.Context, versions []string) error {
	if err := s.WriteLanding(ctx, versions); err != nil {
		return err
	}
	return s.WriteScript(ctx)
}

// Init creates an empty docs tree: an empty manifest when none exists, the
// landing page and the shared script.
func (s *Site) Init(ctx context.Context) (manifest.Manifest, error) {
	if err := s.fs.MkdirAll(ctx, s.dir, core.PermDir); err != nil {
		return nil, classifyFileError(err, "", s.dir, "create")
	}

	versions, err := s.store.Load(ctx)
	if err != nil {
		var nf *manifest.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		versions = manifest.Manifest{}
		if err := s.store.Save(ctx, versions); err != nil {
			return nil, err
		}
	}

	if err := s.WriteShared(ctx, versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (s *Site) writeFile(ctx context.Context, path string, data []byte) error {
	if err := s.fs.MkdirAll(ctx, filepath.Dir(path), core.PermDir); err != nil {
		return classifyFileError(err, "", filepath.Dir(path), "create")
	}
	if err := s.fs.WriteFile(ctx, path, data, core.PermFile); err != nil {
		return classifyFileError(err, "", path, "write")
	}
	s.logger.Debug("wrote file", "path", path, "bytes", len(data))
	return nil
}

func (s *Site) exists(ctx context.Context, path string) (bool, error) {
	_, err := s.fs.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
