// Package versionid recognizes and orders documentation version identifiers.
//
// An identifier is an opaque token naming one published release. Nothing is
// assumed about it beyond two things: whether it looks like a version
// (numeric dotted form or a reserved literal) and where it sorts relative to
// the others.
package versionid

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// DefaultReserved lists the literal tokens recognized as version segments
// even though they are not numeric.
var DefaultReserved = []string{"test", "latest", "dev"}

var (
	// numericRegex matches the numeric dotted form with an optional "v" prefix:
	// "1", "1.2", "v1.2.3", "2024.10.1".
	numericRegex = regexp.MustCompile(`^v?\d+(?:\.\d+)*$`)

	// keyRegex captures the leading major[.minor[.patch]] digits used for ordering.
	keyRegex = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

	// ErrInvalid is returned when a string cannot be used as a version identifier.
	ErrInvalid = errors.New("invalid version identifier")
)

// maxLength caps identifier length; identifiers become directory names.
const maxLength = 128

// Matcher applies the recognition rule with a given set of reserved literals.
type Matcher struct {
	reserved map[string]struct{}
}

// NewMatcher creates a Matcher. A nil slice uses DefaultReserved; an empty
// slice disables literal matching.
func NewMatcher(reserved []string) *Matcher {
	if reserved == nil {
		reserved = DefaultReserved
	}
	m := &Matcher{reserved: make(map[string]struct{}, len(reserved))}
	for _, r := range reserved {
		if r = strings.TrimSpace(r); r != "" {
			m.reserved[r] = struct{}{}
		}
	}
	return m
}

// Match reports whether segment names a documentation version.
func (m *Matcher) Match(segment string) bool {
	if IsNumeric(segment) {
		return true
	}
	_, ok := m.reserved[segment]
	return ok
}

// Reserved returns the reserved literals in sorted order.
func (m *Matcher) Reserved() []string {
	out := make([]string, 0, len(m.reserved))
	for r := range m.reserved {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// IsNumeric reports whether s is in numeric dotted form.
func IsNumeric(s string) bool {
	return len(s) <= maxLength && numericRegex.MatchString(s)
}

// Validate checks that s can be published as a version: it must be usable as
// a single path segment of the docs tree.
func Validate(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("%w: empty", ErrInvalid)
	case len(s) > maxLength:
		return fmt.Errorf("%w: exceeds maximum length of %d", ErrInvalid, maxLength)
	case s == "." || s == "..":
		return fmt.Errorf("%w: %q", ErrInvalid, s)
	case strings.ContainsAny(s, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalid, s)
	case strings.IndexFunc(s, isSpaceOrControl) >= 0:
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalid, s)
	}
	return nil
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}

// Key is the ordering key of an identifier. Identifiers without a leading
// numeric part order as 0.0.0; ties are broken by the raw string.
type Key struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

// ParseKey derives the ordering key of s. It never fails.
func ParseKey(s string) Key {
	k := Key{Raw: s}
	m := keyRegex.FindStringSubmatch(s)
	if m == nil {
		return k
	}
	k.Major = atoi(m[1])
	k.Minor = atoi(m[2])
	k.Patch = atoi(m[3])
	return k
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Compare returns -1, 0 or +1 as k sorts before, with, or after other.
func (k Key) Compare(other Key) int {
	if c := compareInt(k.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(k.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(k.Patch, other.Patch); c != 0 {
		return c
	}
	return strings.Compare(k.Raw, other.Raw)
}

// Compare orders two identifiers by their keys.
func Compare(a, b string) int {
	return ParseKey(a).Compare(ParseKey(b))
}

// SortNewestFirst returns a copy of versions ordered newest first, the order
// in which manifests are stored.
func SortNewestFirst(versions []string) []string {
	out := slices.Clone(versions)
	slices.SortStableFunc(out, func(a, b string) int {
		return Compare(b, a)
	})
	return out
}

// SortOldestFirst returns a copy of versions ordered oldest first.
func SortOldestFirst(versions []string) []string {
	out := slices.Clone(versions)
	slices.SortStableFunc(out, Compare)
	return out
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
