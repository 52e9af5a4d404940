package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

/* ------------------------------------------------------------------------- */
/* MOCK IMPLEMENTATIONS FOR TESTING                                          */
/* ------------------------------------------------------------------------- */

// mockMarshaler implements core.Marshaler for testing.
type mockMarshaler struct {
	marshalErr    error
	marshalOutput []byte
}

func (m *mockMarshaler) Marshal(v any) ([]byte, error) {
	if m.marshalErr != nil {
		return nil, m.marshalErr
	}
	if m.marshalOutput != nil {
		return m.marshalOutput, nil
	}
	return []byte("docs_dir: test\n"), nil
}

// mockFileOpener implements FileOpener for testing.
type mockFileOpener struct {
	openFileErr error
}

func (m *mockFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	if m.openFileErr != nil {
		return nil, m.openFileErr
	}
	return os.OpenFile(name, flag, perm)
}

// mockFileWriter implements FileWriter for testing.
type mockFileWriter struct {
	writeFileErr error
}

func (m *mockFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	if m.writeFileErr != nil {
		return 0, m.writeFileErr
	}
	return file.Write(data)
}

/* ------------------------------------------------------------------------- */
/* SAVE CONFIG                                                               */
/* ------------------------------------------------------------------------- */

func TestConfigSaver_Save(t *testing.T) {
	tests := []struct {
		name          string
		cfg           *Config
		wantErr       bool
		mockMarshaler *mockMarshaler
		mockOpener    *mockFileOpener
		mockWriter    *mockFileWriter
	}{
		{
			name: "save minimal config",
			cfg:  &Config{DocsDir: "docs"},
		},
		{
			name: "save full config",
			cfg: &Config{
				DocsDir:  "public",
				Title:    "Reel API",
				Manifest: ManifestConfig{Fallback: "none"},
				Storage:  StorageConfig{Bucket: "docs", Endpoint: "localhost:9000"},
			},
		},
		{
			name:          "marshal failure",
			cfg:           &Config{DocsDir: "docs"},
			wantErr:       true,
			mockMarshaler: &mockMarshaler{marshalErr: fmt.Errorf("mock marshal failure")},
		},
		{
			name:       "open file failure",
			cfg:        &Config{DocsDir: "docs"},
			wantErr:    true,
			mockOpener: &mockFileOpener{openFileErr: fmt.Errorf("permission denied")},
		},
		{
			name:       "write file failure",
			cfg:        &Config{DocsDir: "docs"},
			wantErr:    true,
			mockWriter: &mockFileWriter{writeFileErr: fmt.Errorf("simulated write failure")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), DefaultFile)

			var marshaler interface{ Marshal(any) ([]byte, error) }
			var opener FileOpener
			var writer FileWriter
			if tt.mockMarshaler != nil {
				marshaler = tt.mockMarshaler
			}
			if tt.mockOpener != nil {
				opener = tt.mockOpener
			}
			if tt.mockWriter != nil {
				writer = tt.mockWriter
			}

			err := NewConfigSaver(marshaler, opener, writer).SaveTo(tt.cfg, configFile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConfigSaver.SaveTo() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if _, err := os.Stat(configFile); err != nil {
					t.Errorf("config file was not created: %v", err)
				}
			}
		})
	}
}

func TestConfigSaver_RoundTripOmitsCredentials(t *testing.T) {
	clearEnv(t)
	configFile := filepath.Join(t.TempDir(), DefaultFile)
	cfg := &Config{
		DocsDir: "public",
		Title:   "Reel API",
		Storage: StorageConfig{Bucket: "docs", AccessKey: "AKIA", SecretKey: "s3cr3t"},
	}

	if err := NewConfigSaver(nil, nil, nil).SaveTo(cfg, configFile); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "s3cr3t") || strings.Contains(string(data), "AKIA") {
		t.Errorf("credentials written to config:\n%s", data)
	}
	if cfg.Storage.SecretKey != "s3cr3t" {
		t.Error("SaveTo must not modify the caller's config")
	}

	loaded, err := LoadConfigFn(configFile)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.DocsDir != "public" || loaded.Title != "Reel API" || loaded.Storage.Bucket != "docs" {
		t.Errorf("reloaded config = %+v", loaded)
	}
}

func TestConfigSaver_WriteError(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), DefaultFile)

	saver := NewConfigSaver(nil, nil, &mockFileWriter{writeFileErr: fmt.Errorf("simulated write failure")})
	err := saver.SaveTo(&Config{DocsDir: "docs"}, configFile)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	want := fmt.Sprintf("failed to write config to %q: simulated write failure", configFile)
	if err.Error() != want {
		t.Errorf("unexpected error. got: %q, want: %q", err.Error(), want)
	}
}

func TestSaveConfigFn(t *testing.T) {
	runInTempDir(t, filepath.Join(t.TempDir(), "dummy"), func() {
		if err := SaveConfigFn(&Config{DocsDir: "docs"}); err != nil {
			t.Fatalf("SaveConfigFn() error = %v", err)
		}
		info, err := os.Stat(DefaultFile)
		if err != nil {
			t.Fatalf("%s was not created: %v", DefaultFile, err)
		}
		if info.Mode().Perm() != ConfigFilePerm {
			t.Errorf("permissions = %v, want %v", info.Mode().Perm(), ConfigFilePerm)
		}
	})
}

func TestNewConfigSaver_Defaults(t *testing.T) {
	saver := NewConfigSaver(nil, nil, nil)
	if saver.marshaler == nil || saver.fileOpener == nil || saver.fileWriter == nil {
		t.Error("NewConfigSaver should fill every nil dependency")
	}
}
