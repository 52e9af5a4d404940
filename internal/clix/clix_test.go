package clix

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/loader"
	"github.com/indaco/vdocs/internal/storage"
)

// runWith executes a root command carrying the docs-dir flag and returns the
// ExecutionContext resolved by its action.
func runWith(t *testing.T, cfg *config.Config, args []string) *ExecutionContext {
	t.Helper()
	var got *ExecutionContext
	app := &cli.Command{
		Name: "vdocs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "docs-dir", Aliases: []string{"d"}},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			execCtx, err := GetExecutionContext(ctx, cmd, cfg)
			got = execCtx
			return err
		},
	}
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}
	return got
}

func TestGetExecutionContext_DocsDir(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name string
		cfg  *config.Config
		args []string
		want string
	}{
		{"config value", &config.Config{DocsDir: filepath.Join(tmp, "cfg")}, []string{"vdocs"}, filepath.Join(tmp, "cfg")},
		{"flag wins", &config.Config{DocsDir: filepath.Join(tmp, "cfg")}, []string{"vdocs", "-d", filepath.Join(tmp, "flag")}, filepath.Join(tmp, "flag")},
		{"nil config", nil, []string{"vdocs"}, config.DefaultDocsDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execCtx := runWith(t, tt.cfg, tt.args)
			if execCtx.DocsDir != tt.want {
				t.Errorf("DocsDir = %q, want %q", execCtx.DocsDir, tt.want)
			}
			if execCtx.Site.Dir() != tt.want {
				t.Errorf("Site.Dir() = %q, want %q", execCtx.Site.Dir(), tt.want)
			}
		})
	}
}

func TestExecutionContext_Fetcher(t *testing.T) {
	orig := NewStorageFn
	t.Cleanup(func() { NewStorageFn = orig })

	mem := storage.NewMemory("docs")
	NewStorageFn = func(storage.Config) (storage.Storage, error) { return mem, nil }

	cfg := config.Default()
	cfg.DocsDir = t.TempDir()
	cfg.Storage = config.StorageConfig{Endpoint: "localhost:9000", Bucket: "docs"}

	execCtx := runWith(t, cfg, []string{"vdocs"})
	mux, ok := execCtx.Fetcher().(*loader.Mux)
	if !ok {
		t.Fatalf("Fetcher() = %T, want *loader.Mux", execCtx.Fetcher())
	}
	if mux.HTTP == nil || mux.File == nil || mux.Object == nil {
		t.Errorf("mux = %+v, want all fetchers", mux)
	}

	NewStorageFn = func(storage.Config) (storage.Storage, error) { return nil, errors.New("unreachable") }
	mux = execCtx.Fetcher().(*loader.Mux)
	if mux.Object != nil {
		t.Error("Object fetcher should be nil when storage cannot be built")
	}
}

func TestExecutionContext_FetcherWithoutStorage(t *testing.T) {
	cfg := config.Default()
	cfg.DocsDir = t.TempDir()

	mux := runWith(t, cfg, []string{"vdocs"}).Fetcher().(*loader.Mux)
	if mux.Object != nil {
		t.Error("Object fetcher should be nil without a configured bucket")
	}
}
