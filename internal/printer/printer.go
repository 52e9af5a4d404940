package printer

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Style definitions for consistent console output across the application.
var (
	faintStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan
)

// Status marks prefixed to result lines.
const (
	MarkOK   = "✓"
	MarkFail = "✗"
	MarkWarn = "!"
)

// SetNoColor disables (or restores) ANSI styling for all render functions.
func SetNoColor(disabled bool) {
	if disabled {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// ColorEnabled reports whether styled output currently emits colors.
func ColorEnabled() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}

// Render functions return styled strings without printing.

// Faint returns text with faint styling.
func Faint(text string) string {
	return faintStyle.Render(text)
}

// Bold returns text with bold styling.
func Bold(text string) string {
	return boldStyle.Render(text)
}

// Success returns text with success (green) styling.
func Success(text string) string {
	return successStyle.Render(text)
}

// Error returns text with error (red) styling.
func Error(text string) string {
	return errorStyle.Render(text)
}

// Warning returns text with warning (yellow) styling.
func Warning(text string) string {
	return warningStyle.Render(text)
}

// Info returns text with info (cyan) styling.
func Info(text string) string {
	return infoStyle.Render(text)
}

// Check returns a result line: a green mark when ok, a red one otherwise.
func Check(ok bool, text string) string {
	if ok {
		return Success(MarkOK) + " " + text
	}
	return Error(MarkFail) + " " + text
}

// Caution returns a yellow-marked result line.
func Caution(text string) string {
	return Warning(MarkWarn) + " " + text
}

// Print functions output styled text to stdout with a newline.

// PrintFaint prints text with faint styling.
func PrintFaint(text string) {
	fmt.Println(Faint(text))
}

// PrintBold prints text with bold styling.
func PrintBold(text string) {
	fmt.Println(Bold(text))
}

// PrintSuccess prints text with success (green) styling.
func PrintSuccess(text string) {
	fmt.Println(Success(text))
}

// PrintError prints text with error (red) styling.
func PrintError(text string) {
	fmt.Println(Error(text))
}

// PrintWarning prints text with warning (yellow) styling.
func PrintWarning(text string) {
	fmt.Println(Warning(text))
}

// PrintInfo prints text with info (cyan) styling.
func PrintInfo(text string) {
	fmt.Println(Info(text))
}

// suggester is implemented by errors that know how the user can fix them.
type suggester interface {
	Suggestion() string
}

// Suggestion returns the first hint found in err's chain, or "".
func Suggestion(err error) string {
	var s suggester
	if errors.As(err, &s) {
		return s.Suggestion()
	}
	return ""
}

// PrintErr writes err to stderr, followed by its suggestion when one exists.
func PrintErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, Error("Error: "+err.Error()))
	if hint := Suggestion(err); hint != "" {
		fmt.Fprintln(os.Stderr, Faint("Hint: "+hint))
	}
}
