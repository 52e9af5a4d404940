package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/render"
	"github.com/indaco/vdocs/internal/versionid"
)

const testSpec = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Reel API",
    "version": "0.0.0"
  },
  "paths": {}
}
`

func newTestSite(t *testing.T) (*Site, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "docs")
	s := New(core.NewOSFileSystem(), Options{
		DocsDir: dir,
		Page:    render.PageConfig{Title: "Reel API"},
	}, nil)
	return s, dir
}

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := os.WriteFile(path, []byte(testSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestPublish_CreatesTree(t *testing.T) {
	s, dir := newTestSite(t)
	ctx := context.Background()
	spec := writeSpec(t)

	res, err := s.Publish(ctx, PublishRequest{Version: "1.0.0", SpecPath: spec, StampVersion: true})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !res.Added || res.Latest != "1.0.0" {
		t.Errorf("result = %+v", res)
	}

	for _, rel := range []string{"versions.json", "index.html", "scripts.js", "1.0.0/index.html", "1.0.0/openapi.json"} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	doc := readFile(t, filepath.Join(dir, "1.0.0", "openapi.json"))
	if got := gjson.Get(doc, "info.version").String(); got != "1.0.0" {
		t.Errorf("info.version = %q, want 1.0.0", got)
	}
	if got := gjson.Get(doc, "info.title").String(); got != "Reel API" {
		t.Errorf("info.title = %q, stamping must preserve other fields", got)
	}

	if v, err := s.SpecVersion(ctx, "1.0.0"); err != nil || v != "1.0.0" {
		t.Errorf("SpecVersion = %q, %v", v, err)
	}
}

func TestPublish_SortsAndDoesNotDuplicate(t *testing.T) {
	s, dir := newTestSite(t)
	ctx := context.Background()
	spec := writeSpec(t)

	for _, v := range []string{"1.9.0", "1.10.0", "1.2.0", "1.10.0"} {
		if _, err := s.Publish(ctx, PublishRequest{Version: v, SpecPath: spec}); err != nil {
			t.Fatalf("Publish %s: %v", v, err)
		}
	}

	got, err := s.Store().Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := manifest.Manifest{"1.10.0", "1.9.0", "1.2.0"}
	if !slices.Equal(got, want) {
		t.Errorf("manifest = %v, want %v", got, want)
	}

	landing := readFile(t, filepath.Join(dir, "index.html"))
	if !strings.Contains(landing, "1.10.0 (latest)") {
		t.Error("landing page should mark 1.10.0 as latest")
	}

	page := readFile(t, filepath.Join(dir, "1.10.0", "index.html"))
	if !strings.Contains(page, `<option value="1.10.0" selected>`) {
		t.Error("version page should preselect its own version")
	}
}

func TestPublish_RequiresSpec(t *testing.T) {
	s, dir := newTestSite(t)

	_, err := s.Publish(context.Background(), PublishRequest{Version: "1.0.0"})
	var mse *MissingSpecError
	if !errors.As(err, &mse) {
		t.Fatalf("error = %v, want *MissingSpecError", err)
	}
	if mse.Suggestion() == "" {
		t.Error("expected a suggestion")
	}
	if _, err := os.Stat(filepath.Join(dir, "1.0.0")); !os.IsNotExist(err) {
		t.Errorf("rejected publish left a version directory behind (stat err = %v)", err)
	}
}

func TestPublish_KeepsExistingSpec(t *testing.T) {
	s, dir := newTestSite(t)
	versionDir := filepath.Join(dir, "dev")
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(versionDir, "openapi.json"), []byte(testSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Publish(context.Background(), PublishRequest{Version: "dev"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if readFile(t, filepath.Join(versionDir, "openapi.json")) != testSpec {
		t.Error("existing document should be left untouched")
	}
}

func TestPublish_RejectsInvalid(t *testing.T) {
	s, _ := newTestSite(t)
	ctx := context.Background()

	if _, err := s.Publish(ctx, PublishRequest{Version: "../etc"}); !errors.Is(err, versionid.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("[1,2]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Publish(ctx, PublishRequest{Version: "1.0", SpecPath: bad}); err == nil {
		t.Error("expected error for non-object document")
	}
	if _, err := os.Stat(s.VersionDir("1.0")); !os.IsNotExist(err) {
		t.Errorf("rejected publish left a version directory behind (stat err = %v)", err)
	}
}

func TestInit(t *testing.T) {
	s, dir := newTestSite(t)
	ctx := context.Background()

	versions, err := s.Init(ctx)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("versions = %v, want empty", versions)
	}
	if got := readFile(t, filepath.Join(dir, "versions.json")); got != "[]\n" {
		t.Errorf("versions.json = %q", got)
	}
	if !strings.Contains(readFile(t, filepath.Join(dir, "index.html")), render.BannerUnknown) {
		t.Error("empty landing page should show the degraded banner")
	}

	if _, err := s.Publish(ctx, PublishRequest{Version: "2.0", SpecPath: writeSpec(t)}); err != nil {
		t.Fatal(err)
	}
	versions, err = s.Init(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(versions, manifest.Manifest{"2.0"}) {
		t.Errorf("Init must keep an existing manifest, got %v", versions)
	}
}

func TestDelete(t *testing.T) {
	s, dir := newTestSite(t)
	ctx := context.Background()
	spec := writeSpec(t)
	for _, v := range []string{"1.0", "2.0"} {
		if _, err := s.Publish(ctx, PublishRequest{Version: v, SpecPath: spec}); err != nil {
			t.Fatal(err)
		}
	}

	res, err := s.Delete(ctx, "2.0", DeleteOptions{})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !res.DirRemoved || !res.ManifestUpdated {
		t.Errorf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "2.0")); !os.IsNotExist(err) {
		t.Error("version directory should be removed")
	}
	if !slices.Equal(res.Versions, manifest.Manifest{"1.0"}) {
		t.Errorf("versions = %v", res.Versions)
	}
	if strings.Contains(readFile(t, filepath.Join(dir, "index.html")), "2.0/") {
		t.Error("landing page should no longer link 2.0")
	}
}

func TestDelete_Missing(t *testing.T) {
	s, _ := newTestSite(t)
	ctx := context.Background()

	_, err := s.Delete(ctx, "9.9", DeleteOptions{})
	var vde *VersionDirError
	if !errors.As(err, &vde) || !vde.Missing {
		t.Fatalf("error = %v, want missing *VersionDirError", err)
	}

	res, err := s.Delete(ctx, "9.9", DeleteOptions{KeepIfMissing: true})
	if err != nil {
		t.Fatalf("Delete with KeepIfMissing: %v", err)
	}
	if res.DirRemoved || res.ManifestUpdated {
		t.Errorf("result = %+v, want no change", res)
	}
}

func TestDelete_RefusesFile(t *testing.T) {
	s, dir := newTestSite(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "1.0"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Delete(context.Background(), "1.0", DeleteOptions{KeepIfMissing: true})
	var vde *VersionDirError
	if !errors.As(err, &vde) || vde.Missing {
		t.Fatalf("error = %v, want non-directory *VersionDirError", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1.0")); err != nil {
		t.Error("file must not be deleted")
	}
}

func TestNew_DefaultDelay(t *testing.T) {
	s := New(core.NewOSFileSystem(), Options{DocsDir: "docs"}, nil)
	if s.delay != 30*time.Second {
		t.Errorf("delay = %v, want 30s", s.delay)
	}
	if s.Dir() != "docs" || s.VersionDir("1.0") != filepath.Join("docs", "1.0") {
		t.Error("unexpected paths")
	}
}
