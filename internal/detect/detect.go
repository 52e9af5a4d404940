// Package detect infers the version to publish from common project files.
package detect

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/versionid"
)

// VersionSource represents a detected version from an existing file.
type VersionSource struct {
	// File is the source file path relative to the searched directory.
	File string

	// Version is the extracted version string.
	Version string

	// Format describes the file format (e.g., "OpenAPI (openapi.json)").
	Format string
}

type detector struct {
	file   string
	format string
	parse  func(data []byte) (string, error)
}

// detectors are listed in priority order.
var detectors = []detector{
	{"openapi.json", "OpenAPI (openapi.json)", parseOpenAPIJSON},
	{"openapi.yaml", "OpenAPI (openapi.yaml)", parseOpenAPIYAML},
	{"package.json", "Node.js (package.json)", parsePackageJSON},
	{"Cargo.toml", "Rust (Cargo.toml)", parseCargo},
	{"pyproject.toml", "Python (pyproject.toml)", parsePyproject},
	{"Chart.yaml", "Helm (Chart.yaml)", parseChart},
	{".version", "Plain text (.version)", parsePlainText},
	{"version.txt", "Plain text (version.txt)", parsePlainText},
	{"VERSION", "Plain text (VERSION)", parsePlainText},
}

// Detector searches a directory for version information.
type Detector struct {
	fs core.FileSystem
}

// New creates a Detector reading through fsys.
func New(fsys core.FileSystem) *Detector {
	return &Detector{fs: fsys}
}

// Detect returns every usable version found in dir, highest priority first.
// Files that are missing or unparsable are skipped.
func (d *Detector) Detect(ctx context.Context, dir string) ([]VersionSource, error) {
	var sources []VersionSource
	for _, det := range detectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := d.fs.ReadFile(ctx, filepath.Join(dir, det.file))
		if err != nil {
			continue
		}
		version, err := det.parse(data)
		if err != nil || version == "" {
			continue
		}
		if versionid.Validate(version) != nil {
			continue
		}
		sources = append(sources, VersionSource{File: det.file, Version: version, Format: det.format})
	}
	return sources, nil
}

// ErrNoVersion is returned by Best when nothing was detected.
var ErrNoVersion = errors.New("no version found in project files")

// Best returns the highest priority source.
func Best(sources []VersionSource) (VersionSource, error) {
	if len(sources) == 0 {
		return VersionSource{}, ErrNoVersion
	}
	return sources[0], nil
}

// FormatVersionSources formats the detected sources for display.
func FormatVersionSources(sources []VersionSource) string {
	var sb strings.Builder
	for _, s := range sources {
		fmt.Fprintf(&sb, "  - %s from %s (%s)\n", s.Version, s.File, s.Format)
	}
	return sb.String()
}

func parseOpenAPIJSON(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", errors.New("invalid JSON")
	}
	return gjson.GetBytes(data, "info.version").String(), nil
}

func parseOpenAPIYAML(data []byte) (string, error) {
	var doc struct {
		Info struct {
			Version string `yaml:"version"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	return doc.Info.Version, nil
}

func parsePackageJSON(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", errors.New("invalid JSON")
	}
	return gjson.GetBytes(data, "version").String(), nil
}

func parseCargo(data []byte) (string, error) {
	var cargo struct {
		Package struct {
			Version string `toml:"version"`
		} `toml:"package"`
		Workspace struct {
			Package struct {
				Version string `toml:"version"`
			} `toml:"package"`
		} `toml:"workspace"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return "", err
	}
	if cargo.Package.Version != "" {
		return cargo.Package.Version, nil
	}
	return cargo.Workspace.Package.Version, nil
}

func parsePyproject(data []byte) (string, error) {
	var py struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Version string `toml:"version"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return "", err
	}
	if py.Project.Version != "" {
		return py.Project.Version, nil
	}
	return py.Tool.Poetry.Version, nil
}

func parseChart(data []byte) (string, error) {
	var chart struct {
		Version    string `yaml:"version"`
		AppVersion string `yaml:"appVersion"`
	}
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return "", err
	}
	if chart.AppVersion != "" {
		return chart.AppVersion, nil
	}
	return chart.Version, nil
}

func parsePlainText(data []byte) (string, error) {
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}
