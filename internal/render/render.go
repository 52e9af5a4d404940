// Package render builds the dropdown and landing page models and the static
// HTML pages of a docs tree.
package render

import (
	"fmt"
	"time"

	"github.com/indaco/vdocs/internal/countdown"
)

// BannerUnknown is shown on the landing page when no version is known.
const BannerUnknown = "Could not determine latest version."

// Option is one entry of the version selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Dropdown returns the selector options for versions in manifest order.
// The option equal to current is selected; if current is absent none is.
func Dropdown(versions []string, current string) []Option {
	opts := make([]Option, 0, len(versions))
	for _, v := range versions {
		opts = append(opts, Option{
			Value:    v,
			Label:    v,
			Selected: v == current,
		})
	}
	return opts
}

// Link is one entry of the landing page version list.
type Link struct {
	Version string
	Href    string
	Label   string
	Latest  bool
}

// Landing is the landing page model.
type Landing struct {
	Links []Link
	// Latest is empty when the version list is empty.
	Latest string
	// Target is the redirect destination, empty when there is nothing to redirect to.
	Target string
	// Seconds is the countdown start value.
	Seconds int
	Banner  string
}

// NewLanding builds the landing model from a manifest-ordered list. The
// first version is the latest one and the redirect target.
func NewLanding(versions []string, delay time.Duration) Landing {
	seconds := int(delay / time.Second)
	if delay <= 0 {
		seconds = 0
	}

	l := Landing{
		Links:   make([]Link, 0, len(versions)),
		Seconds: seconds,
	}
	if len(versions) == 0 {
		l.Banner = BannerUnknown
		return l
	}

	l.Latest = versions[0]
	l.Target = versions[0] + "/"
	l.Banner = fmt.Sprintf("Auto-redirecting to latest version (%s) in %d seconds...", l.Latest, seconds)

	for i, v := range versions {
		link := Link{Version: v, Href: v + "/", Label: v}
		if i == 0 {
			link.Label = v + " (latest)"
			link.Latest = true
		}
		l.Links = append(l.Links, link)
	}
	return l
}

// Versions returns the listed versions in manifest order.
func (l Landing) Versions() []string {
	out := make([]string, 0, len(l.Links))
	for _, link := range l.Links {
		out = append(out, link.Version)
	}
	return out
}

// Redirects reports whether the landing page schedules a redirect.
func (l Landing) Redirects() bool {
	return l.Target != ""
}

// Countdown returns the countdown that redirects to the target. The
// returned countdown is nil when there is no redirect.
func (l Landing) Countdown(onTick func(int), redirect func(target string)) *countdown.Countdown {
	if !l.Redirects() {
		return nil
	}
	target := l.Target
	return &countdown.Countdown{
		Seconds: l.Seconds,
		OnTick:  onTick,
		OnDone: func() {
			if redirect != nil {
				redirect(target)
			}
		},
	}
}
