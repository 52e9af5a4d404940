package site

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// VersionDirError reports a version directory that cannot be removed.
type VersionDirError struct {
	Path    string
	Missing bool
}

func (e *VersionDirError) Error() string {
	if e.Missing {
		return fmt.Sprintf("version directory not found: %s", e.Path)
	}
	return fmt.Sprintf("refusing to delete non-directory path: %s", e.Path)
}

// Suggestion returns guidance for resolving the error.
func (e *VersionDirError) Suggestion() string {
	if e.Missing {
		return "Use --keep-if-missing to only drop the version from versions.json."
	}
	return fmt.Sprintf("Remove %s manually if it is not a published version.", e.Path)
}

// MissingSpecError indicates that a version has no OpenAPI document.
type MissingSpecError struct {
	Version string
	Path    string
}

func (e *MissingSpecError) Error() string {
	return fmt.Sprintf("no OpenAPI document for version %s at %s", e.Version, e.Path)
}

// Suggestion returns guidance for resolving the error.
func (e *MissingSpecError) Suggestion() string {
	return "Pass --spec with the path of the OpenAPI JSON document to publish."
}

// FilePermissionError indicates insufficient permissions for file operations.
type FilePermissionError struct {
	Src string
	Dst string
	Op  string // "read", "write", "backup", "remove"
	Err error
}

func (e *FilePermissionError) Error() string {
	if e.Src == "" {
		return fmt.Sprintf("permission denied: cannot %s %q: %v", e.Op, e.Dst, e.Err)
	}
	return fmt.Sprintf("permission denied: cannot %s file from %q to %q: %v", e.Op, e.Src, e.Dst, e.Err)
}

func (e *FilePermissionError) Unwrap() error {
	return e.Err
}

// DiskFullError indicates no space left on device.
type DiskFullError struct {
	Path string
	Err  error
}

func (e *DiskFullError) Error() string {
	return fmt.Sprintf("no space left on device at %q: %v", e.Path, e.Err)
}

func (e *DiskFullError) Unwrap() error {
	return e.Err
}

// classifyFileError turns file system errors into the typed errors above.
func classifyFileError(err error, src, dst, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fs.ErrPermission) {
		return &FilePermissionError{Src: src, Dst: dst, Op: op, Err: err}
	}

	if errors.Is(err, fs.ErrNotExist) && src != "" {
		return fmt.Errorf("source path not found: %q: %w", src, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no space left on device") || strings.Contains(msg, "disk full") {
		return &DiskFullError{Path: dst, Err: err}
	}

	if src == "" {
		return fmt.Errorf("failed to %s %q: %w", op, dst, err)
	}
	return fmt.Errorf("failed to %s from %q to %q: %w", op, src, dst, err)
}
