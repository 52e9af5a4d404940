package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/storage"
)

// maxManifestBytes bounds how much of a response is read.
const maxManifestBytes = 1 << 20

// ErrUnsupportedScheme is returned when no fetcher handles a location.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// Fetcher retrieves the raw bytes stored at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// Mux dispatches a location to the fetcher of its scheme. Locations without
// a scheme, and file:// URLs, go to File.
type Mux struct {
	HTTP   Fetcher
	File   Fetcher
	Object Fetcher
}

// Fetch implements Fetcher.
func (m *Mux) Fetch(ctx context.Context, location string) ([]byte, error) {
	var f Fetcher
	switch schemeOf(location) {
	case "http", "https":
		f = m.HTTP
	case "", "file":
		f = m.File
	case "s3":
		f = m.Object
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, location)
	}
	return f.Fetch(ctx, location)
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPFetcher performs unauthenticated GET requests.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client uses one with
// core.TimeoutFetch as its timeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: core.TimeoutFetch}
	}
	return &HTTPFetcher{client: client}
}

// Fetch implements Fetcher. Any status outside 2xx is a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", location, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxManifestBytes))
		return nil, &StatusError{URL: location, StatusCode: resp.StatusCode}
	}

	return readLimited(resp.Body, location)
}

// FileFetcher reads manifests from the local filesystem.
type FileFetcher struct {
	fs core.FileSystem
}

// NewFileFetcher creates a FileFetcher over fsys.
func NewFileFetcher(fsys core.FileSystem) *FileFetcher {
	return &FileFetcher{fs: fsys}
}

// Fetch implements Fetcher for bare paths and file:// URLs.
func (f *FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	path := location
	if schemeOf(location) == "file" {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL %q: %w", location, err)
		}
		path = u.Path
	}
	return f.fs.ReadFile(ctx, path)
}

// ObjectFetcher reads s3://bucket/key locations from object storage.
type ObjectFetcher struct {
	store storage.Storage
}

// NewObjectFetcher creates an ObjectFetcher bound to store.
func NewObjectFetcher(store storage.Storage) *ObjectFetcher {
	return &ObjectFetcher{store: store}
}

// Fetch implements Fetcher.
func (f *ObjectFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseObjectLocation(location)
	if err != nil {
		return nil, err
	}
	if bucket != f.store.Bucket() {
		return nil, fmt.Errorf("bucket %q is not configured (configured: %q)", bucket, f.store.Bucket())
	}

	rc, _, err := f.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return readLimited(rc, location)
}

// ParseObjectLocation splits "s3://bucket/key" into its parts.
func ParseObjectLocation(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid object location %q: %w", location, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid object location %q: expected s3://bucket/key", location)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("invalid object location %q: missing key", location)
	}
	return u.Host, key, nil
}

func readLimited(r io.Reader, location string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxManifestBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	if len(data) > maxManifestBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", location, maxManifestBytes)
	}
	return data, nil
}

// schemeOf returns the lower-cased URL scheme of location, or "" for plain
// paths (including Windows drive letters).
func schemeOf(location string) string {
	i := strings.Index(location, "://")
	if i <= 1 {
		return ""
	}
	return strings.ToLower(location[:i])
}
