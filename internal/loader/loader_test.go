package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/manifest"
	"github.com/indaco/vdocs/internal/storage"
)

type callRecorder struct {
	calls    int
	versions []string
	current  string
}

func (r *callRecorder) callback(versions []string, current string) {
	r.calls++
	r.versions = versions
	r.current = current
}

func newMux() *Mux {
	return &Mux{
		HTTP: NewHTTPFetcher(nil),
		File: NewFileFetcher(core.NewOSFileSystem()),
	}
}

func TestLoad_FirstCandidateWins(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/api/versions.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["2.0","1.0"]`))
	}))
	defer srv.Close()

	l := New(Config{}, newMux(), nil)
	rec := &callRecorder{}
	res, err := l.Load(context.Background(), srv.URL+"/api/1.0/index.html", "1.0", rec.callback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.calls != 1 {
		t.Fatalf("callback invoked %d times, want 1", rec.calls)
	}
	if !slices.Equal(rec.versions, []string{"2.0", "1.0"}) || rec.current != "1.0" {
		t.Errorf("callback got %v, %q", rec.versions, rec.current)
	}
	if res.Source != srv.URL+"/api/versions.json" {
		t.Errorf("Source = %q", res.Source)
	}
	if res.Exhausted || res.FellBack || len(res.Attempts) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
}

func TestLoad_FallsThroughToSecondCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/versions.json":
			w.WriteHeader(http.StatusInternalServerError)
		case "/1.0/versions.json":
			_, _ = w.Write([]byte(`["1.0"]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := New(Config{}, newMux(), nil)
	rec := &callRecorder{}
	res, err := l.Load(context.Background(), srv.URL+"/1.0/", "1.0", rec.callback)
	if err != nil {
		t.Fatal(err)
	}
	if rec.calls != 1 || !slices.Equal(rec.versions, []string{"1.0"}) {
		t.Errorf("callback = %d calls, %v", rec.calls, rec.versions)
	}
	if len(res.Attempts) != 1 {
		t.Fatalf("expected 1 failed attempt, got %d", len(res.Attempts))
	}
	var se *StatusError
	if !errors.As(res.Attempts[0].Err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected StatusError 500, got %v", res.Attempts[0].Err)
	}
}

func TestLoad_ExhaustionSingleFallback(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/versions.json" {
			_, _ = w.Write([]byte(`{"not": "a list"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := New(Config{Fallback: FallbackSingle}, newMux(), nil)
	rec := &callRecorder{}
	res, err := l.Load(context.Background(), srv.URL+"/1.0/", "1.0", rec.callback)
	if err != nil {
		t.Fatal(err)
	}

	if rec.calls != 1 {
		t.Fatalf("fallback must run exactly once, callback invoked %d times", rec.calls)
	}
	if !slices.Equal(rec.versions, []string{"1.0"}) {
		t.Errorf("fallback versions = %v", rec.versions)
	}
	if !res.Exhausted || !res.FellBack {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.Attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(res.Attempts))
	}
	if hits.Load() != 2 {
		t.Errorf("expected exactly 2 requests (no retries), got %d", hits.Load())
	}

	var perr *manifest.ParseError
	if !errors.As(res.Attempts[0].Err, &perr) {
		t.Errorf("first attempt should fail to parse, got %v", res.Attempts[0].Err)
	}
}

func TestLoad_ExhaustionNoneFallback(t *testing.T) {
	fetches := 0
	failing := FetcherFunc(func(context.Context, string) ([]byte, error) {
		fetches++
		return nil, errors.New("network down")
	})

	l := New(Config{Candidates: []string{"a.json", "b.json", "c.json"}, Fallback: FallbackNone}, failing, nil)
	rec := &callRecorder{}
	res, err := l.Load(context.Background(), "/docs", "1.0", rec.callback)
	if err != nil {
		t.Fatal(err)
	}
	if rec.calls != 0 {
		t.Errorf("FallbackNone must not invoke the callback, got %d calls", rec.calls)
	}
	if !res.Exhausted || res.FellBack || res.Versions != nil {
		t.Errorf("unexpected result %+v", res)
	}
	if fetches != 3 {
		t.Errorf("expected 3 fetches, got %d", fetches)
	}
}

func TestLoad_SingleFallbackWithoutCurrent(t *testing.T) {
	failing := FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, errors.New("missing")
	})
	l := New(Config{Candidates: LandingCandidates}, failing, nil)
	rec := &callRecorder{}
	res, err := l.Load(context.Background(), "/docs", "", rec.callback)
	if err != nil {
		t.Fatal(err)
	}
	if rec.calls != 0 || res.FellBack || !res.Exhausted {
		t.Errorf("landing load without current version should not fall back: %+v, calls=%d", res, rec.calls)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetches := 0
	f := FetcherFunc(func(context.Context, string) ([]byte, error) {
		fetches++
		cancel()
		return nil, context.Canceled
	})

	l := New(Config{}, f, nil)
	rec := &callRecorder{}
	_, err := l.Load(ctx, "/docs/1.0", "1.0", rec.callback)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if rec.calls != 0 {
		t.Error("fallback must not run after cancellation")
	}
	if fetches != 1 {
		t.Errorf("expected 1 fetch, got %d", fetches)
	}
}

func TestFetch_ExhaustedError(t *testing.T) {
	boom := errors.New("boom")
	l := New(Config{Candidates: []string{"x.json"}}, FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, boom
	}), nil)

	_, _, attempts, err := l.Fetch(context.Background(), "/docs")
	if !errors.Is(err, ErrExhausted) || !errors.Is(err, boom) {
		t.Errorf("Fetch error = %v, want ErrExhausted wrapping boom", err)
	}
	if len(attempts) != 1 || attempts[0].Location != filepath.Join("/docs", "x.json") {
		t.Errorf("attempts = %+v", attempts)
	}
}

func TestLoad_FileCandidates(t *testing.T) {
	docs := t.TempDir()
	versionDir := filepath.Join(docs, "1.0")
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "versions.json"), []byte(`["1.0","0.9"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	l := New(Config{}, newMux(), nil)
	rec := &callRecorder{}
	res, err := l.Load(context.Background(), versionDir, "1.0", rec.callback)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(rec.versions, []string{"1.0", "0.9"}) {
		t.Errorf("versions = %v", rec.versions)
	}
	if res.Source != filepath.Join(docs, "versions.json") {
		t.Errorf("Source = %q", res.Source)
	}
}

func TestLoad_ObjectCandidate(t *testing.T) {
	store := storage.NewMemory("docs-bucket")
	if _, err := store.Put(context.Background(), "reel-api/versions.json", strings.NewReader(`["3.1","2.0"]`), storage.PutObjectOptions{Size: -1}); err != nil {
		t.Fatal(err)
	}

	mux := &Mux{Object: NewObjectFetcher(store)}
	l := New(Config{}, mux, nil)
	rec := &callRecorder{}
	res, err := l.Load(context.Background(), "s3://docs-bucket/reel-api/2.0/", "2.0", rec.callback)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(rec.versions, []string{"3.1", "2.0"}) {
		t.Errorf("versions = %v", rec.versions)
	}
	if res.Source != "s3://docs-bucket/reel-api/versions.json" {
		t.Errorf("Source = %q", res.Source)
	}
}

func TestMux_UnsupportedScheme(t *testing.T) {
	m := &Mux{}
	if _, err := m.Fetch(context.Background(), "ftp://example.com/versions.json"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
	if _, err := m.Fetch(context.Background(), "https://example.com/versions.json"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("nil HTTP fetcher should be unsupported, got %v", err)
	}
}

func TestObjectFetcher_WrongBucket(t *testing.T) {
	f := NewObjectFetcher(storage.NewMemory("a"))
	if _, err := f.Fetch(context.Background(), "s3://b/versions.json"); err == nil {
		t.Error("expected error for unconfigured bucket")
	}
}

func TestParseObjectLocation(t *testing.T) {
	bucket, key, err := ParseObjectLocation("s3://docs/api/versions.json")
	if err != nil || bucket != "docs" || key != "api/versions.json" {
		t.Errorf("got %q, %q, %v", bucket, key, err)
	}
	for _, bad := range []string{"s3://docs", "s3:///key", "https://docs/key"} {
		if _, _, err := ParseObjectLocation(bad); err == nil {
			t.Errorf("ParseObjectLocation(%q) expected error", bad)
		}
	}
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		base, candidate, want string
	}{
		{"https://acme.github.io/api/1.0/", "../versions.json", "https://acme.github.io/api/versions.json"},
		{"https://acme.github.io/api/1.0/index.html", "./versions.json", "https://acme.github.io/api/1.0/versions.json"},
		{"https://acme.github.io/api/", "https://cdn.acme.com/versions.json", "https://cdn.acme.com/versions.json"},
		{"s3://bucket/api/1.0/", "../versions.json", "s3://bucket/api/versions.json"},
		{"docs/1.0", "../versions.json", filepath.Join("docs", "versions.json")},
		{"", "./versions.json", "versions.json"},
		{"docs", "/srv/versions.json", filepath.Clean("/srv/versions.json")},
	}
	for _, tt := range tests {
		got, err := ResolveLocation(tt.base, tt.candidate)
		if err != nil {
			t.Errorf("ResolveLocation(%q, %q): %v", tt.base, tt.candidate, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveLocation(%q, %q) = %q, want %q", tt.base, tt.candidate, got, tt.want)
		}
	}

	if _, err := ResolveLocation("docs", ""); err == nil {
		t.Error("expected error for empty candidate")
	}
}

func TestParseFallback(t *testing.T) {
	for in, want := range map[string]Fallback{"": FallbackSingle, "single": FallbackSingle, "NONE": FallbackNone} {
		got, err := ParseFallback(in)
		if err != nil || got != want {
			t.Errorf("ParseFallback(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFallback("retry"); err == nil {
		t.Error("expected error for unknown fallback")
	}
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.Client()).Fetch(context.Background(), srv.URL+"/versions.json")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusGone {
		t.Fatalf("expected StatusError 410, got %v", err)
	}
	if !strings.Contains(se.Error(), "410") {
		t.Errorf("error message %q should include status", se.Error())
	}
}
