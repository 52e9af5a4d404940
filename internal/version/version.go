// Package version exposes the vdocs release number.
package version

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed version.txt
var embedded string

// GetVersion returns the release number without a "v" prefix. A module
// version stamped by "go install" wins over the embedded one.
func GetVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return strings.TrimSpace(embedded)
}
