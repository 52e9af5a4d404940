// Package manifest models versions.json, the ordered list of published
// documentation versions whose first element is the latest release.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/indaco/vdocs/internal/versionid"
	"github.com/tidwall/gjson"
)

// FileName is the conventional name of the manifest resource.
const FileName = "versions.json"

// Unknown is reported as the latest version of an empty manifest.
const Unknown = "unknown"

// Manifest is an ordered sequence of version identifiers.
type Manifest []string

var (
	errNotArray      = errors.New("expected a JSON array")
	errInvalidJSON   = errors.New("invalid JSON")
	errNonStringItem = errors.New("array elements must be strings")
)

// Parse decodes data as a manifest. Anything other than a JSON array of
// strings is rejected with a *ParseError.
func Parse(data []byte) (Manifest, error) {
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Err: errInvalidJSON}
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, &ParseError{Err: errNotArray}
	}

	items := root.Array()
	out := make(Manifest, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, &ParseError{Err: fmt.Errorf("%w: element %d is %s", errNonStringItem, i, item.Type)}
		}
		out = append(out, item.Str)
	}
	return out, nil
}

// Marshal encodes m the way versions.json is stored: two-space indentation
// and a trailing newline.
func (m Manifest) Marshal() ([]byte, error) {
	list := []string(m)
	if list == nil {
		list = []string{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Latest returns the first element, or Unknown when m is empty.
func (m Manifest) Latest() string {
	if len(m) == 0 {
		return Unknown
	}
	return m[0]
}

// Contains reports whether version is listed.
func (m Manifest) Contains(version string) bool {
	return slices.Contains(m, version)
}

// Add appends version if it is not already listed. The boolean reports
// whether the manifest changed.
func (m Manifest) Add(version string) (Manifest, bool) {
	if m.Contains(version) {
		return m, false
	}
	out := slices.Clone(m)
	return append(out, version), true
}

// Remove drops every occurrence of version. The boolean reports whether the
// manifest changed.
func (m Manifest) Remove(version string) (Manifest, bool) {
	out := make(Manifest, 0, len(m))
	for _, v := range m {
		if v != version {
			out = append(out, v)
		}
	}
	return out, len(out) != len(m)
}

// Sorted returns a copy ordered newest first.
func (m Manifest) Sorted() Manifest {
	return Manifest(versionid.SortNewestFirst(m))
}

// IsSorted reports whether m is already ordered newest first.
func (m Manifest) IsSorted() bool {
	return slices.Equal(m, m.Sorted())
}
