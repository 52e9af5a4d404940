package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// vdocs palette: indigo accents matching the generated landing page.
var (
	vdocsIndigoPrimary  = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#818cf8"}
	vdocsIndigoBright   = lipgloss.AdaptiveColor{Light: "#4338ca", Dark: "#a5b4fc"}
	vdocsAmberAccent    = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
	vdocsTextStrong     = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"}
	vdocsTextNormal     = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#e5e7eb"}
	vdocsTextMuted      = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	vdocsBorderFocused  = lipgloss.AdaptiveColor{Light: "#6366f1", Dark: "#6366f1"}
	vdocsBorderNormal   = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#4b5563"}
	vdocsButtonBg       = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#6366f1"}
	vdocsButtonBgMuted  = lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#374151"}
	vdocsButtonText     = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#ffffff"}
	vdocsErrorIndicator = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// vdocsTheme is the default prompt theme.
func vdocsTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(vdocsBorderFocused)
	t.Focused.Title = t.Focused.Title.Foreground(vdocsIndigoPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(vdocsTextMuted)
	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(vdocsTextStrong).Bold(true)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(vdocsAmberAccent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(vdocsIndigoBright)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(vdocsTextNormal)
	t.Focused.Option = t.Focused.Option.Foreground(vdocsTextNormal)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(vdocsErrorIndicator)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(vdocsErrorIndicator)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(vdocsButtonText).
		Background(vdocsButtonBg).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(vdocsTextNormal).
		Background(vdocsButtonBgMuted).
		Padding(0, 1)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderForeground(vdocsBorderNormal)
	t.Blurred.Title = t.Blurred.Title.Foreground(vdocsTextMuted).Bold(false)

	t.Help.ShortKey = t.Help.ShortKey.Foreground(vdocsIndigoPrimary)
	t.Help.ShortDesc = t.Help.ShortDesc.Foreground(vdocsTextMuted)
	t.Help.ShortSeparator = t.Help.ShortSeparator.Foreground(vdocsBorderNormal)
	t.Help.FullKey = t.Help.FullKey.Foreground(vdocsIndigoPrimary)
	t.Help.FullDesc = t.Help.FullDesc.Foreground(vdocsTextMuted)
	t.Help.FullSeparator = t.Help.FullSeparator.Foreground(vdocsBorderNormal)

	return t
}

// currentTheme holds the configured theme. When nil the vdocs theme is used.
var currentTheme *huh.Theme

// SetTheme sets the current theme by name.
// Empty or unknown names select the vdocs theme.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
}

func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return vdocsTheme()
	}
	return currentTheme
}

// resetTheme restores the default theme. Used by tests.
func resetTheme() {
	currentTheme = nil
}
