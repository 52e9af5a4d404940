package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/indaco/vdocs/internal/resolver"
	"github.com/indaco/vdocs/internal/versionid"
)

// ScriptFile is the name of the shared script next to the landing page.
const ScriptFile = "scripts.js"

// Fallback values understood by the shared script.
const (
	FallbackSingle = "single"
	FallbackNone   = "none"
)

// DefaultRendererURL is the API reference renderer loaded by version pages.
const DefaultRendererURL = "https://cdn.jsdelivr.net/npm/@scalar/api-reference"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

//go:embed assets/scripts.js
var script []byte

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// Script returns the shared browser script written as docs/scripts.js.
func Script() []byte {
	out := make([]byte, len(script))
	copy(out, script)
	return out
}

// PageConfig holds the values common to every generated page.
type PageConfig struct {
	Title       string
	Subtitle    string
	RendererURL string
	// Candidates is the manifest lookup order used by version pages.
	Candidates []string
	// LandingCandidates is the manifest lookup order used by the landing page.
	LandingCandidates []string
	// Fallback is FallbackSingle or FallbackNone.
	Fallback string
	// Reserved are the literal version segments. Nil uses the defaults,
	// empty disables them.
	Reserved []string
	// HostedSuffixes select the hosted-subpath layout. Nil uses the defaults.
	HostedSuffixes []string
}

// scriptPolicy is handed to configureVersions in the generated pages.
type scriptPolicy struct {
	Candidates     []string `json:"candidates"`
	Fallback       string   `json:"fallback"`
	Reserved       []string `json:"reserved"`
	HostedSuffixes []string `json:"hostedSuffixes"`
}

func (c PageConfig) withDefaults() PageConfig {
	if c.Title == "" {
		c.Title = "API"
	}
	if c.RendererURL == "" {
		c.RendererURL = DefaultRendererURL
	}
	if len(c.Candidates) == 0 {
		c.Candidates = []string{"../versions.json", "./versions.json"}
	}
	if len(c.LandingCandidates) == 0 {
		c.LandingCandidates = []string{"./versions.json"}
	}
	if c.Fallback == "" {
		c.Fallback = FallbackSingle
	}
	if c.Reserved == nil {
		c.Reserved = versionid.DefaultReserved
	}
	if c.HostedSuffixes == nil {
		c.HostedSuffixes = resolver.DefaultHostedSuffixes
	}
	return c
}

func (c PageConfig) policy(candidates []string) scriptPolicy {
	return scriptPolicy{
		Candidates:     candidates,
		Fallback:       c.Fallback,
		Reserved:       c.Reserved,
		HostedSuffixes: c.HostedSuffixes,
	}
}

type versionPageData struct {
	PageConfig
	Version string
	Options []Option
}

// Policy is the script configuration of a version page.
func (d versionPageData) Policy() scriptPolicy {
	return d.policy(d.Candidates)
}

type landingPageData struct {
	PageConfig
	Landing
}

// Policy is the script configuration of the landing page.
func (d landingPageData) Policy() scriptPolicy {
	return d.policy(d.LandingCandidates)
}

// VersionPage writes the page of a single version. The selector is
// prefilled with versions; when versions is empty it only lists version.
func VersionPage(w io.Writer, cfg PageConfig, version string, versions []string) error {
	if len(versions) == 0 {
		versions = []string{version}
	}
	data := versionPageData{
		PageConfig: cfg.withDefaults(),
		Version:    version,
		Options:    Dropdown(versions, version),
	}
	if err := pages.ExecuteTemplate(w, "version.html.tmpl", data); err != nil {
		return fmt.Errorf("render version page %q: %w", version, err)
	}
	return nil
}

// LandingPage writes the root index page listing versions.
func LandingPage(w io.Writer, cfg PageConfig, versions []string, delay time.Duration) error {
	data := landingPageData{
		PageConfig: cfg.withDefaults(),
		Landing:    NewLanding(versions, delay),
	}
	if err := pages.ExecuteTemplate(w, "landing.html.tmpl", data); err != nil {
		return fmt.Errorf("render landing page: %w", err)
	}
	return nil
}
