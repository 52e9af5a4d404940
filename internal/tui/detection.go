package tui

import (
	"os"

	"golang.org/x/term"
)

// EnvNoPrompt disables interactive prompts when set to any non-empty value.
const EnvNoPrompt = "VDOCS_NO_PROMPT"

// ciEnvVars are set by common CI/CD providers.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"DRONE",
	"TF_BUILD",
	"CODEBUILD_BUILD_ID",
}

// IsCI reports whether the process runs under a known CI provider.
func IsCI() bool {
	for _, env := range ciEnvVars {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}

// IsInteractive determines if prompts and spinners may be shown.
// It is false when stdout is not a terminal, under CI, or when
// VDOCS_NO_PROMPT is set.
func IsInteractive() bool {
	if !IsTTY() {
		return false
	}
	if os.Getenv(EnvNoPrompt) != "" {
		return false
	}
	return !IsCI()
}

// IsTTY checks if stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}
