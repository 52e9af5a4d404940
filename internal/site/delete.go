package site

import (
	"context"
	"errors"
	"io/fs"

	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/versionid"
)

// DeleteOptions controls Delete.
type DeleteOptions struct {
	// KeepIfMissing tolerates a missing version directory.
	KeepIfMissing bool
}

// DeleteResult reports what Delete changed.
type DeleteResult struct {
	DirRemoved      bool
	ManifestUpdated bool
	Versions        manifest.Manifest
}

// Delete removes a published version: its directory and its manifest
// entry. The landing page is regenerated when the manifest changed.
func (s *Site) Delete(ctx context.Context, version string, opts DeleteOptions) (DeleteResult, error) {
	if err := versionid.Validate(version); err != nil {
		return DeleteResult{}, err
	}

	var res DeleteResult
	dir := s.VersionDir(version)

	info, err := s.fs.Stat(ctx, dir)
	switch {
	case err == nil && !info.IsDir():
		return res, &VersionDirError{Path: dir}
	case err == nil:
		if err := s.fs.RemoveAll(ctx, dir); err != nil {
			return res, classifyFileError(err, "", dir, "remove")
		}
		res.DirRemoved = true
		s.logger.Info("deleted version directory", "path", dir)
	case errors.Is(err, fs.ErrNotExist):
		if !opts.KeepIfMissing {
			return res, &VersionDirError{Path: dir, Missing: true}
		}
		s.logger.Info("version directory not found", "path", dir)
	default:
		return res, classifyFileError(err, "", dir, "stat")
	}

	versions, removed, err := s.store.RemoveVersion(ctx, version)
	if err != nil {
		return res, err
	}
	res.Versions = versions
	res.ManifestUpdated = removed

	if removed {
		s.logger.Info("removed version from manifest", "version", version)
		if err := s.WriteLanding(ctx, versions); err != nil {
			return res, err
		}
	} else {
		s.logger.Info("version not present in manifest", "version", version)
	}
	return res, nil
}
