package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/site"
	"github.com/indaco/vdocs/internal/testutils"
)

func newApp(t *testing.T, docsDir string) *cli.Command {
	t.Helper()
	cfg := config.Default()
	cfg.DocsDir = docsDir
	return testutils.BuildCLIForTests(docsDir, []*cli.Command{Run(cfg)})
}

func TestCLI_BuildCommand(t *testing.T) {
	docsDir := t.TempDir()
	testutils.WriteTempFile(t, docsDir, manifest.FileName, `["v2.0.0","v1.0.0","v0.9.0"]`)
	testutils.WriteTempFile(t, docsDir, "v2.0.0/"+site.SpecFile, `{"openapi":"3.0.0"}`)
	testutils.WriteTempFile(t, docsDir, "v1.0.0/"+site.SpecFile, `{"openapi":"3.0.0"}`)
	testutils.WriteTempFile(t, docsDir, "v1.0.0/"+site.IndexFile, `<html>old</html>`)

	output, err := testutils.CaptureStdout(func() {
		testutils.RunCLITest(t, newApp(t, docsDir), []string{"vdocs", "build"}, docsDir)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "Built 2 version page(s)") || !strings.Contains(output, "Skipped (no openapi.json): v0.9.0") {
		t.Errorf("unexpected output: %q", output)
	}

	page := testutils.ReadTempFile(t, filepath.Join(docsDir, "v1.0.0", site.IndexFile))
	if strings.Contains(page, "old") || !strings.Contains(page, "version-select") {
		t.Errorf("page was not regenerated: %q", page)
	}
	if _, err := os.Stat(filepath.Join(docsDir, "v1.0.0", site.IndexFile+site.DefaultBackupSuffix)); !os.IsNotExist(err) {
		t.Error("build must not create backups")
	}
	testutils.ReadTempFile(t, filepath.Join(docsDir, site.IndexFile))
	testutils.ReadTempFile(t, filepath.Join(docsDir, "scripts.js"))
}

func TestCLI_BuildCommand_MissingManifest(t *testing.T) {
	docsDir := t.TempDir()
	err := testutils.RunCLITestAllowError(t, newApp(t, docsDir), []string{"vdocs", "build"}, docsDir)
	if err == nil {
		t.Fatal("expected error without versions.json")
	}
}

func TestCLI_BuildCommand_Watch(t *testing.T) {
	docsDir := t.TempDir()
	testutils.WriteTempFile(t, docsDir, manifest.FileName, `["v1.0.0"]`)
	testutils.WriteTempFile(t, docsDir, "v1.0.0/"+site.SpecFile, `{"openapi":"3.0.0"}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newApp(t, docsDir).Run(ctx, []string{"vdocs", "build", "--watch", "--debounce", "20ms"})
	}()

	newPage := filepath.Join(docsDir, "v2.0.0", site.IndexFile)
	testutils.WriteTempFile(t, docsDir, "v2.0.0/"+site.SpecFile, `{"openapi":"3.0.0"}`)

	deadline := time.Now().Add(5 * time.Second)
	for {
		// Rewrite until the watcher, which may not be registered yet, sees it.
		testutils.WriteTempFile(t, docsDir, manifest.FileName, `["v2.0.0","v1.0.0"]`)
		if _, err := os.Stat(newPage); err == nil {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("watch did not rebuild after versions.json changed")
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
