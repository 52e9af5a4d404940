// Package resolver computes where to navigate when the reader switches
// between version-specific documentation trees.
//
// Resolve is pure; the navigation side effect is isolated behind Navigator
// so callers decide whether a target opens a browser, is printed, or is just
// recorded.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/indaco/vdocs/internal/versionid"
)

// ErrInvalidVersion is returned when the requested version cannot be used as
// a path segment.
var ErrInvalidVersion = errors.New("invalid requested version")

// Policy configures the recognition rule and layout detection.
type Policy struct {
	// Matcher recognizes version segments. Nil uses the default reserved literals.
	Matcher *versionid.Matcher
	// HostedSuffixes select LayoutHostedSubpath. Nil uses DefaultHostedSuffixes.
	HostedSuffixes []string
}

// Resolver computes navigation targets.
type Resolver struct {
	matcher        *versionid.Matcher
	hostedSuffixes []string
}

// New creates a Resolver from p, filling unset fields with defaults.
func New(p Policy) *Resolver {
	r := &Resolver{
		matcher:        p.Matcher,
		hostedSuffixes: p.HostedSuffixes,
	}
	if r.matcher == nil {
		r.matcher = versionid.NewMatcher(nil)
	}
	if r.hostedSuffixes == nil {
		r.hostedSuffixes = DefaultHostedSuffixes
	}
	return r
}

// Target is a computed navigation destination.
type Target struct {
	// Path is the absolute path of the target, ending in "/".
	Path string
	// Base is the path prefix shared by all versions.
	Base string
	// Layout is the deployment layout inferred from the location.
	Layout Layout
	// Matched reports whether a version segment was found in the current path.
	Matched bool
}

// URL resolves the target against the page it was computed from.
func (t Target) URL(page *url.URL) string {
	if page == nil {
		return t.Path
	}
	return page.ResolveReference(&url.URL{Path: t.Path}).String()
}

// DetectLayout infers the deployment layout from the location's scheme and host.
func (r *Resolver) DetectLayout(loc Location) Layout {
	if loc.Scheme == "file" || loc.Host == "" || isLoopbackHost(loc.Host) {
		return LayoutLocal
	}
	for _, suffix := range r.hostedSuffixes {
		if hasHostSuffix(loc.Host, suffix) {
			return LayoutHostedSubpath
		}
	}
	return LayoutCustomDomain
}

// BasePath returns the prefix shared by every version of the site the
// location belongs to. When the path contains a version segment the prefix is
// everything before the last such segment; otherwise the layout decides.
func (r *Resolver) BasePath(loc Location) (base string, layout Layout, matched bool) {
	layout = r.DetectLayout(loc)
	segments := splitPath(loc.Path)

	if idx := r.versionIndex(segments); idx >= 0 {
		return joinBase(segments[:idx]), layout, true
	}

	dirs := directorySegments(loc.Path, segments)
	switch layout {
	case LayoutHostedSubpath:
		// The first directory is the project prefix.
		if len(dirs) > 0 {
			return joinBase(dirs[:1]), layout, false
		}
		return "/", layout, false
	default:
		// The current directory is the root of the tree, as a browser would
		// resolve a relative "<version>/" link.
		return joinBase(dirs), layout, false
	}
}

// Resolve computes where to go for requested when current is displayed. The
// boolean is false when no navigation is needed because requested equals
// current.
func (r *Resolver) Resolve(loc Location, requested, current string) (Target, bool, error) {
	if err := versionid.Validate(requested); err != nil {
		return Target{}, false, fmt.Errorf("%w: %w", ErrInvalidVersion, err)
	}
	if requested == current {
		return Target{}, false, nil
	}

	base, layout, matched := r.BasePath(loc)
	return Target{
		Path:    base + requested + "/",
		Base:    base,
		Layout:  layout,
		Matched: matched,
	}, true, nil
}

// versionIndex returns the index of the last version segment, or -1.
func (r *Resolver) versionIndex(segments []string) int {
	for i := len(segments) - 1; i >= 0; i-- {
		if r.matcher.Match(segments[i]) {
			return i
		}
	}
	return -1
}

func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// directorySegments drops a trailing file name: "/docs/index.html" lives in
// "/docs/", while "/docs/" is already a directory.
func directorySegments(p string, segments []string) []string {
	if len(segments) == 0 || strings.HasSuffix(p, "/") {
		return segments
	}
	return segments[:len(segments)-1]
}

func joinBase(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/") + "/"
}

// Navigator performs the navigation side effect.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, target string) error

// Navigate calls f.
func (f NavigatorFunc) Navigate(ctx context.Context, target string) error {
	return f(ctx, target)
}

// Switch resolves requested against page and hands the absolute target to
// nav. Nothing happens when requested equals current.
func (r *Resolver) Switch(ctx context.Context, nav Navigator, page *url.URL, requested, current string) (Target, bool, error) {
	target, ok, err := r.Resolve(LocationFromURL(page), requested, current)
	if err != nil || !ok {
		return target, ok, err
	}
	if err := nav.Navigate(ctx, target.URL(page)); err != nil {
		return target, false, fmt.Errorf("failed to navigate to %s: %w", target.Path, err)
	}
	return target, true, nil
}
