// Package testutils holds helpers shared by command and config tests.
package testutils

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

// WriteTempConfig writes content as .vdocs.yaml in a new temporary
// directory and returns the file path.
func WriteTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".vdocs.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// WriteTempFile writes content to dir/rel, creating parent directories.
func WriteTempFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReadTempFile returns the content of path.
func ReadTempFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// CaptureStdout runs fn and returns what it wrote to os.Stdout.
func CaptureStdout(fn func()) (string, error) {
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	var copyErr error
	go func() {
		_, copyErr = io.Copy(&buf, r)
		close(done)
	}()

	defer func() { os.Stdout = old }()
	fn()

	_ = w.Close()
	<-done
	_ = r.Close()
	return buf.String(), copyErr
}

// BuildCLIForTests returns a root command with the global docs-dir flag
// and the given subcommands.
func BuildCLIForTests(docsDir string, commands []*cli.Command) *cli.Command {
	return &cli.Command{
		Name: "vdocs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "docs-dir",
				Aliases: []string{"d"},
				Value:   docsDir,
			},
		},
		Commands: commands,
	}
}

// RunCLITest runs app with args from workDir and fails the test on error.
func RunCLITest(t *testing.T, app *cli.Command, args []string, workDir string) {
	t.Helper()
	if err := RunCLITestAllowError(t, app, args, workDir); err != nil {
		t.Fatalf("CLI run failed: %v", err)
	}
}

// RunCLITestAllowError runs app with args from workDir and returns its error.
func RunCLITestAllowError(t *testing.T, app *cli.Command, args []string, workDir string) error {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", workDir, err)
	}
	defer func() { _ = os.Chdir(origDir) }()

	return app.Run(context.Background(), args)
}
