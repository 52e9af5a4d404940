// Package doctor validates a versioned docs tree.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/render"
	"github.com/indaco/vdocs/internal/versionid"
)

// Check categories.
const (
	CategoryDocsDir    = "Docs Directory"
	CategoryManifest   = "Manifest"
	CategoryVersions   = "Version Identifiers"
	CategoryTree       = "Version Directories"
	CategoryOrphans    = "Orphaned Directories"
	CategoryLanding    = "Landing Page"
	CategoryScript     = "Shared Script"
	CategoryBackups    = "Backups"
	CategorySpecStamps = "OpenAPI Versions"
)

// RequiredFunctions must be defined by docs/scripts.js for the generated
// pages to work.
var RequiredFunctions = []string{"loadVersions", "setupLandingPage", "switchVersion", "configureVersions"}

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Manifest", "Landing Page").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validator validates a docs tree.
type Validator struct {
	fs          core.FileSystem
	tree        fs.FS
	docsDir     string
	matcher     *versionid.Matcher
	validations []ValidationResult
}

// NewValidator creates a validator for the tree rooted at docsDir. A nil
// matcher uses the default reserved literals.
func NewValidator(fsys core.FileSystem, docsDir string, matcher *versionid.Matcher) *Validator {
	if matcher == nil {
		matcher = versionid.NewMatcher(nil)
	}
	return &Validator{
		fs:      fsys,
		tree:    os.DirFS(docsDir),
		docsDir: docsDir,
		matcher: matcher,
	}
}

// Validate runs all checks and returns the results. The error is non-nil
// only when the context is canceled.
func (v *Validator) Validate(ctx context.Context) ([]ValidationResult, error) {
	v.validations = make([]ValidationResult, 0)

	if !v.validateDocsDir(ctx) {
		return v.validations, ctx.Err()
	}

	versions, ok := v.validateManifest(ctx)
	if ok {
		v.validateIdentifiers(versions)
		v.validateVersionDirs(ctx, versions)
		v.validateOrphans(versions)
		v.validateSpecVersions(ctx, versions)
	}
	v.validateLanding(ctx)
	v.validateScript(ctx)
	v.validateBackups()

	return v.validations, ctx.Err()
}

func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

func (v *Validator) validateDocsDir(ctx context.Context) bool {
	info, err := v.fs.Stat(ctx, v.docsDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		v.addValidation(CategoryDocsDir, false, fmt.Sprintf("Docs directory %s does not exist", v.docsDir), false)
		return false
	case err != nil:
		v.addValidation(CategoryDocsDir, false, fmt.Sprintf("Cannot access %s: %v", v.docsDir, err), false)
		return false
	case !info.IsDir():
		v.addValidation(CategoryDocsDir, false, fmt.Sprintf("%s is not a directory", v.docsDir), false)
		return false
	}
	v.addValidation(CategoryDocsDir, true, fmt.Sprintf("Docs directory found at %s", v.docsDir), false)
	return true
}

func (v *Validator) validateManifest(ctx context.Context) (manifest.Manifest, bool) {
	store := manifest.NewStore(v.fs, v.docsDir, nil)
	versions, err := store.Load(ctx)
	if err != nil {
		v.addValidation(CategoryManifest, false, err.Error(), false)
		return nil, false
	}

	if len(versions) == 0 {
		v.addValidation(CategoryManifest, true, "versions.json is empty; no version is published", true)
		return versions, true
	}

	if dups := duplicates(versions); len(dups) > 0 {
		v.addValidation(CategoryManifest, false, fmt.Sprintf("Duplicate versions: %s", strings.Join(dups, ", ")), false)
	}

	if !versions.IsSorted() {
		v.addValidation(CategoryManifest, true,
			fmt.Sprintf("versions.json is not sorted newest first (expected %s)", strings.Join(versions.Sorted(), ", ")), true)
	} else {
		v.addValidation(CategoryManifest, true,
			fmt.Sprintf("%d version(s) listed, latest is %s", len(versions), versions.Latest()), false)
	}
	return versions, true
}

func (v *Validator) validateIdentifiers(versions manifest.Manifest) {
	var invalid, unrecognized []string
	for _, ver := range versions {
		if err := versionid.Validate(ver); err != nil {
			invalid = append(invalid, fmt.Sprintf("%q", ver))
			continue
		}
		if !v.matcher.Match(ver) {
			unrecognized = append(unrecognized, ver)
		}
	}

	if len(invalid) > 0 {
		v.addValidation(CategoryVersions, false, fmt.Sprintf("Invalid identifiers: %s", strings.Join(invalid, ", ")), false)
	}
	if len(unrecognized) > 0 {
		v.addValidation(CategoryVersions, true,
			fmt.Sprintf("Not recognized in URLs, version switching falls back to layout heuristics: %s", strings.Join(unrecognized, ", ")), true)
	}
	if len(invalid) == 0 && len(unrecognized) == 0 {
		v.addValidation(CategoryVersions, true, "All identifiers are recognized version segments", false)
	}
}

func (v *Validator) validateVersionDirs(ctx context.Context, versions manifest.Manifest) {
	failed := false
	for _, ver := range versions {
		if versionid.Validate(ver) != nil {
			continue
		}
		for _, name := range []string{"index.html", "openapi.json"} {
			path := filepath.Join(v.docsDir, ver, name)
			if _, err := v.fs.Stat(ctx, path); err != nil {
				v.addValidation(CategoryTree, false, fmt.Sprintf("Version %s is missing %s", ver, name), false)
				failed = true
			}
		}
	}
	if !failed {
		v.addValidation(CategoryTree, true, "Every listed version has a page and an OpenAPI document", false)
	}
}

func (v *Validator) validateOrphans(versions manifest.Manifest) {
	entries, err := fs.ReadDir(v.tree, ".")
	if err != nil {
		v.addValidation(CategoryOrphans, false, fmt.Sprintf("Cannot list %s: %v", v.docsDir, err), false)
		return
	}

	var orphans []string
	for _, e := range entries {
		if e.IsDir() && v.matcher.Match(e.Name()) && !versions.Contains(e.Name()) {
			orphans = append(orphans, e.Name())
		}
	}
	if len(orphans) > 0 {
		slices.SortFunc(orphans, versionid.Compare)
		v.addValidation(CategoryOrphans, true,
			fmt.Sprintf("Directories not listed in versions.json: %s", strings.Join(orphans, ", ")), true)
		return
	}
	v.addValidation(CategoryOrphans, true, "No unlisted version directories", false)
}

func (v *Validator) validateSpecVersions(ctx context.Context, versions manifest.Manifest) {
	var mismatched []string
	for _, ver := range versions {
		if versionid.Validate(ver) != nil {
			continue
		}
		data, err := v.fs.ReadFile(ctx, filepath.Join(v.docsDir, ver, "openapi.json"))
		if err != nil {
			continue
		}
		got := gjson.GetBytes(data, "info.version").String()
		if got != "" && strings.TrimPrefix(got, "v") != strings.TrimPrefix(ver, "v") {
			mismatched = append(mismatched, fmt.Sprintf("%s (info.version %s)", ver, got))
		}
	}
	if len(mismatched) > 0 {
		v.addValidation(CategorySpecStamps, true,
			fmt.Sprintf("OpenAPI info.version differs from directory: %s", strings.Join(mismatched, ", ")), true)
		return
	}
	v.addValidation(CategorySpecStamps, true, "OpenAPI documents match their directories", false)
}

func (v *Validator) validateLanding(ctx context.Context) {
	data, err := v.fs.ReadFile(ctx, filepath.Join(v.docsDir, "index.html"))
	if err != nil {
		v.addValidation(CategoryLanding, false, "index.html not found; run `vdocs build`", false)
		return
	}
	if !strings.Contains(string(data), `id="version-list"`) {
		v.addValidation(CategoryLanding, true, "index.html has no version-list element; run `vdocs migrate`", true)
		return
	}
	v.addValidation(CategoryLanding, true, "Landing page found", false)
}

func (v *Validator) validateScript(ctx context.Context) {
	data, err := v.fs.ReadFile(ctx, filepath.Join(v.docsDir, render.ScriptFile))
	if err != nil {
		v.addValidation(CategoryScript, false, "scripts.js not found; run `vdocs build`", false)
		return
	}

	var missing []string
	for _, fn := range RequiredFunctions {
		if !strings.Contains(string(data), "function "+fn) {
			missing = append(missing, fn)
		}
	}
	if len(missing) > 0 {
		v.addValidation(CategoryScript, false,
			fmt.Sprintf("scripts.js missing required functions: %s", strings.Join(missing, ", ")), false)
		return
	}
	v.addValidation(CategoryScript, true, "scripts.js defines every required function", false)
}

func (v *Validator) validateBackups() {
	matches, err := doublestar.Glob(v.tree, "**/*.backup", doublestar.WithFilesOnly())
	if err != nil || len(matches) == 0 {
		v.addValidation(CategoryBackups, true, "No stale backup files", false)
		return
	}
	v.addValidation(CategoryBackups, true,
		fmt.Sprintf("%d stale *.backup file(s); `vdocs migrate` removes them", len(matches)), true)
}

func duplicates(versions []string) []string {
	seen := make(map[string]bool, len(versions))
	var dups []string
	for _, v := range versions {
		if seen[v] && !slices.Contains(dups, v) {
			dups = append(dups, v)
		}
		seen[v] = true
	}
	return dups
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	return ErrorCount(results) > 0
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warnings.
func WarningCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if r.Warning {
			count++
		}
	}
	return count
}
