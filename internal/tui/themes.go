package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
)

// ValidThemes lists the accepted values of the "theme" setting, default first.
var ValidThemes = []string{
	"vdocs",
	"base",
	"base16",
	"catppuccin",
	"charm",
	"dracula",
}

var themeBuilders = map[string]func() *huh.Theme{
	"vdocs":      vdocsTheme,
	"base":       huh.ThemeBase,
	"base16":     huh.ThemeBase16,
	"catppuccin": huh.ThemeCatppuccin,
	"charm":      huh.ThemeCharm,
	"dracula":    huh.ThemeDracula,
}

// IsValidTheme reports whether name is a known theme. Names are case sensitive.
func IsValidTheme(name string) bool {
	return slices.Contains(ValidThemes, name)
}

// GetTheme returns the theme called name, or nil if there is none.
func GetTheme(name string) *huh.Theme {
	build, ok := themeBuilders[name]
	if !ok {
		return nil
	}
	return build()
}

// ValidateTheme returns an error naming the accepted themes when name is unknown.
// An empty name is accepted and means the default.
func ValidateTheme(name string) error {
	if name == "" || IsValidTheme(name) {
		return nil
	}
	return fmt.Errorf("unknown theme %q (valid: %s)", name, strings.Join(ValidThemes, ", "))
}
