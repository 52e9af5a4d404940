package manifest

import (
	"fmt"
	"strings"
)

// NotFoundError indicates that a versions.json file is missing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("version manifest not found: %s", e.Path)
}

// Suggestion returns a helpful message for creating the manifest.
func (e *NotFoundError) Suggestion() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Version manifest not found at: %s\n\n", e.Path)
	sb.WriteString("Publish a first version to create it:\n\n")
	sb.WriteString("  vdocs publish 1.0.0 --spec openapi.json\n\n")
	sb.WriteString("or run `vdocs init` to scaffold an empty docs tree.\n")
	return sb.String()
}

// ParseError indicates that a manifest is not a JSON array of strings.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse version manifest: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse version manifest at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Suggestion returns guidance on the expected manifest format.
func (e *ParseError) Suggestion() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", e.Error())
	sb.WriteString("versions.json must be a JSON array of strings, newest first:\n\n")
	sb.WriteString("  [\n    \"2.0.0\",\n    \"1.0.0\"\n  ]\n")
	return sb.String()
}
