package resolver

import (
	"net"
	"net/url"
	"strings"
)

// Layout describes how a documentation site is deployed.
type Layout int

const (
	// LayoutCustomDomain serves the docs tree from a directory of its own host.
	LayoutCustomDomain Layout = iota
	// LayoutHostedSubpath serves the docs tree below a project prefix, as on
	// github.io or gitlab.io pages ("/<project>/<version>/").
	LayoutHostedSubpath
	// LayoutLocal is a file:// tree or a development server on a loopback host.
	LayoutLocal
)

func (l Layout) String() string {
	switch l {
	case LayoutHostedSubpath:
		return "hosted-subpath"
	case LayoutLocal:
		return "local"
	default:
		return "custom-domain"
	}
}

// DefaultHostedSuffixes are the host suffixes of project-page hosting.
var DefaultHostedSuffixes = []string{"github.io", "gitlab.io"}

// Location is the part of the current address the resolver looks at.
type Location struct {
	Scheme string
	Host   string
	Path   string
}

// LocationFromURL extracts a Location from u.
func LocationFromURL(u *url.URL) Location {
	return Location{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Path:   u.Path,
	}
}

// ParseLocation parses a page address. A bare path is treated as a local
// location.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}
	loc := LocationFromURL(u)
	if loc.Path == "" {
		loc.Path = "/"
	}
	return loc, nil
}

func isLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func hasHostSuffix(host, suffix string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	suffix = strings.ToLower(strings.TrimPrefix(suffix, "."))
	if suffix == "" {
		return false
	}
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
