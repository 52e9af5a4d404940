package config

import (
	"os"
	"path/filepath"
	"testing"
)

/* ------------------------------------------------------------------------- */
/* HELPERS                                                                   */
/* ------------------------------------------------------------------------- */

// runInTempDir runs a function in a temporary directory, then restores to a safe directory.
// This handles the case where the CWD has been deleted by previous test cleanup.
func runInTempDir(t *testing.T, tmpPath string, fn func()) {
	t.Helper()

	origDir, err := os.Getwd()
	if err != nil {
		origDir = os.TempDir()
		if chErr := os.Chdir(origDir); chErr != nil {
			t.Fatalf("failed to chdir to temp dir: %v", chErr)
		}
	}

	targetDir := filepath.Dir(tmpPath)
	if err := os.Chdir(targetDir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", targetDir, err)
	}
	defer func() { _ = os.Chdir(origDir) }()
	fn()
}

// clearEnv unsets every variable read by loadConfig for the test's duration.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvDocsDir, EnvSiteURL, EnvS3Endpoint, EnvS3AccessKey,
		EnvS3SecretKey, EnvS3Bucket, EnvS3Region, EnvS3UseSSL,
	} {
		t.Setenv(key, "")
	}
}

func checkError(t *testing.T, err error, wantErr bool) {
	t.Helper()
	if (err != nil) != wantErr {
		t.Fatalf("expected err=%v, got err=%v", wantErr, err)
	}
}

func checkConfigNil(t *testing.T, cfg *Config, wantNil bool) {
	t.Helper()
	if wantNil && cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
	if !wantNil && cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
}

func checkDocsDir(t *testing.T, cfg *Config, want string) {
	t.Helper()
	if cfg.DocsDir != want {
		t.Errorf("expected docs_dir %q, got %q", want, cfg.DocsDir)
	}
}
