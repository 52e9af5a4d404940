// Package loader retrieves the version manifest from an ordered list of
// candidate locations and hands it to a rendering callback.
//
// Candidates are tried strictly in sequence, each at most once. When every
// candidate fails the configured Fallback decides the single terminal
// outcome: a one-element list holding the current version, or nothing.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/manifest"
)

// Fallback selects what happens when every candidate fails.
type Fallback string

const (
	// FallbackSingle invokes the callback with a list holding only the
	// current version.
	FallbackSingle Fallback = "single"
	// FallbackNone invokes nothing.
	FallbackNone Fallback = "none"
)

// ParseFallback validates s. An empty string selects FallbackSingle.
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(strings.ToLower(strings.TrimSpace(s))) {
	case "", FallbackSingle:
		return FallbackSingle, nil
	case FallbackNone:
		return FallbackNone, nil
	default:
		return "", fmt.Errorf("invalid fallback %q (expected %q or %q)", s, FallbackSingle, FallbackNone)
	}
}

var (
	// DefaultCandidates is the order used by version pages: the manifest of the
	// parent directory first, then the one next to the page.
	DefaultCandidates = []string{"../" + manifest.FileName, "./" + manifest.FileName}

	// LandingCandidates is the order used by the landing page.
	LandingCandidates = []string{"./" + manifest.FileName}
)

// ErrExhausted is returned by Fetch when no candidate produced a manifest.
var ErrExhausted = errors.New("no candidate location returned a valid manifest")

// Callback receives the loaded versions and the current version.
type Callback func(versions []string, current string)

// Attempt records one failed candidate.
type Attempt struct {
	Location string
	Err      error
}

// Result describes the outcome of Load.
type Result struct {
	// Versions is what the callback received, if it was invoked.
	Versions []string
	// Source is the location the manifest was read from.
	Source string
	// Attempts lists the candidates that failed, in order.
	Attempts []Attempt
	// Exhausted is true when every candidate failed.
	Exhausted bool
	// FellBack is true when the single-version fallback was delivered.
	FellBack bool
}

// Config configures a Loader.
type Config struct {
	// Candidates are tried in order. Nil uses DefaultCandidates.
	Candidates []string
	// Fallback is the terminal behavior on exhaustion. Empty means FallbackSingle.
	Fallback Fallback
	// Timeout bounds each attempt. Zero uses core.TimeoutFetch.
	Timeout time.Duration
}

// Loader loads manifests.
type Loader struct {
	candidates []string
	fallback   Fallback
	timeout    time.Duration
	fetcher    Fetcher
	logger     *slog.Logger
}

// New creates a Loader. A nil logger uses slog.Default().
func New(cfg Config, fetcher Fetcher, logger *slog.Logger) *Loader {
	l := &Loader{
		candidates: cfg.Candidates,
		fallback:   cfg.Fallback,
		timeout:    cfg.Timeout,
		fetcher:    fetcher,
		logger:     logger,
	}
	if l.candidates == nil {
		l.candidates = DefaultCandidates
	}
	if l.fallback == "" {
		l.fallback = FallbackSingle
	}
	if l.timeout <= 0 {
		l.timeout = core.TimeoutFetch
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Candidates returns the configured candidate list.
func (l *Loader) Candidates() []string {
	return l.candidates
}

// Fetch resolves every candidate against base and returns the first manifest
// that loads and parses. On exhaustion the error wraps ErrExhausted and every
// attempt error; on cancellation it is the context's error.
func (l *Loader) Fetch(ctx context.Context, base string) (manifest.Manifest, string, []Attempt, error) {
	var attempts []Attempt

	for _, candidate := range l.candidates {
		if err := ctx.Err(); err != nil {
			return nil, "", attempts, err
		}

		location, err := ResolveLocation(base, candidate)
		if err == nil {
			var m manifest.Manifest
			m, err = l.try(ctx, location)
			if err == nil {
				l.logger.Debug("loaded version manifest", "location", location, "versions", len(m))
				return m, location, attempts, nil
			}
		} else {
			location = candidate
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", attempts, ctxErr
		}

		l.logger.Debug("manifest candidate failed", "location", location, "error", err)
		attempts = append(attempts, Attempt{Location: location, Err: err})
	}

	errs := make([]error, 0, len(attempts))
	for _, a := range attempts {
		errs = append(errs, fmt.Errorf("%s: %w", a.Location, a.Err))
	}
	return nil, "", attempts, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
}

func (l *Loader) try(ctx context.Context, location string) (manifest.Manifest, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	data, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return manifest.Parse(data)
}

// Load fetches the manifest relative to base and invokes cb exactly once on
// success. On exhaustion the fallback runs exactly once: FallbackSingle calls
// cb with []string{current} (only when current is not empty), FallbackNone
// does nothing. Cancellation returns the context's error without running
// the fallback.
func (l *Loader) Load(ctx context.Context, base, current string, cb Callback) (Result, error) {
	m, source, attempts, err := l.Fetch(ctx, base)
	res := Result{Attempts: attempts}

	if err == nil {
		res.Versions = []string(m)
		res.Source = source
		if cb != nil {
			cb(res.Versions, current)
		}
		return res, nil
	}

	if !errors.Is(err, ErrExhausted) {
		return res, err
	}

	res.Exhausted = true
	if l.fallback == FallbackSingle && current != "" {
		l.logger.Warn("versions.json not found, using current version only", "current", current, "attempts", len(attempts))
		res.Versions = []string{current}
		res.FellBack = true
		if cb != nil {
			cb(res.Versions, current)
		}
		return res, nil
	}

	l.logger.Warn("versions.json not found", "attempts", len(attempts))
	return res, nil
}

// ResolveLocation resolves candidate against base. Absolute candidates are
// returned unchanged. A base with a URL scheme is resolved with URL
// semantics, so a page URL ending in a file name resolves against its
// directory; any other base is a filesystem directory.
func ResolveLocation(base, candidate string) (string, error) {
	if candidate == "" {
		return "", errors.New("empty candidate location")
	}
	if schemeOf(candidate) != "" {
		return candidate, nil
	}

	switch schemeOf(base) {
	case "":
		if filepath.IsAbs(candidate) {
			return filepath.Clean(candidate), nil
		}
		if base == "" {
			base = "."
		}
		return filepath.Join(base, filepath.FromSlash(candidate)), nil
	default:
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid base location %q: %w", base, err)
		}
		ref, err := url.Parse(candidate)
		if err != nil {
			return "", fmt.Errorf("invalid candidate location %q: %w", candidate, err)
		}
		return b.ResolveReference(ref).String(), nil
	}
}
