package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/indaco/vdocs/internal/render"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user to make choices.
type Prompter interface {
	// SelectVersion returns the chosen version; current is preselected.
	SelectVersion(ctx context.Context, title string, versions []string, current string) (string, error)
	Confirm(ctx context.Context, title string) (bool, error)
}

// VersionOptions converts the version selector model into huh options.
func VersionOptions(versions []string, current string) []huh.Option[string] {
	dropdown := render.Dropdown(versions, current)
	opts := make([]huh.Option[string], 0, len(dropdown))
	for _, o := range dropdown {
		opts = append(opts, huh.NewOption(o.Label, o.Value).Selected(o.Selected))
	}
	return opts
}

// FormPrompter renders prompts as huh forms using the configured theme.
type FormPrompter struct{}

// NewPrompter returns the interactive Prompter.
func NewPrompter() *FormPrompter {
	return &FormPrompter{}
}

// SelectVersion shows a single-choice list of versions.
func (p *FormPrompter) SelectVersion(ctx context.Context, title string, versions []string, current string) (string, error) {
	if len(versions) == 0 {
		return "", errors.New("no versions to choose from")
	}
	choice := current
	if choice == "" {
		choice = versions[0]
	}
	field := huh.NewSelect[string]().
		Title(title).
		Options(VersionOptions(versions, current)...).
		Value(&choice)

	if err := runForm(ctx, huh.NewForm(huh.NewGroup(field))); err != nil {
		return "", err
	}
	return choice, nil
}

// Confirm asks a yes/no question, defaulting to no.
func (p *FormPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)

	if err := runForm(ctx, huh.NewForm(huh.NewGroup(field))); err != nil {
		return false, err
	}
	return ok, nil
}

func runForm(ctx context.Context, form *huh.Form) error {
	err := form.WithTheme(currentThemeOrDefault()).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// StaticPrompter answers every prompt without asking. It is used when the
// session is not interactive.
type StaticPrompter struct {
	// Version is returned by SelectVersion; empty means keep current or pick the first.
	Version   string
	Confirmed bool
}

// SelectVersion returns Version, else current, else the first version.
func (p StaticPrompter) SelectVersion(_ context.Context, _ string, versions []string, current string) (string, error) {
	switch {
	case p.Version != "":
		return p.Version, nil
	case current != "":
		return current, nil
	case len(versions) > 0:
		return versions[0], nil
	}
	return "", errors.New("no versions to choose from")
}

// Confirm returns Confirmed.
func (p StaticPrompter) Confirm(context.Context, string) (bool, error) {
	return p.Confirmed, nil
}

// DefaultPrompter returns a FormPrompter in interactive sessions and a
// StaticPrompter that confirms nothing otherwise.
func DefaultPrompter() Prompter {
	if IsInteractive() {
		return NewPrompter()
	}
	return StaticPrompter{}
}

// WithSpinner runs action while showing title next to a spinner. Outside
// interactive sessions the action runs without one.
func WithSpinner(ctx context.Context, title string, action func(ctx context.Context) error) error {
	if !IsInteractive() {
		return action(ctx)
	}
	var actionErr error
	err := spinner.New().
		Type(spinner.Dots).
		Title(" " + title).
		Context(ctx).
		Action(func() { actionErr = action(ctx) }).
		Run()
	if err != nil {
		return err
	}
	return actionErr
}
