// Package fspath provides the slash-delimited path type used to address
// files in the store.
//
// A Path keeps the raw string it was built from. Equality, ordering and
// map keys all use that raw spelling, so "/a/b" and "a/b//" are different
// paths even though Parts returns the same segments for both. Use
// Equivalent to compare by segments.
package fspath

import (
	"slices"
	"strings"
)

// Separator delimits path segments
const Separator = "/"

// Path wraps a raw slash-delimited string
type Path struct {
	raw string
}

// New creates a Path from its raw spelling
func New(raw string) Path {
	return Path{raw: raw}
}

// String returns the raw spelling
func (p Path) String() string {
	return p.raw
}

// Parts returns the non-empty segments in order.
// "/a//b/" yields [a b]; "" and "///" yield an empty slice.
func (p Path) Parts() []string {
	parts := strings.Split(p.raw, Separator)
	return slices.DeleteFunc(parts, func(s string) bool { return s == "" })
}

// Compare orders paths by their raw spelling
func (p Path) Compare(other Path) int {
	return strings.Compare(p.raw, other.raw)
}

// Equivalent reports whether both paths have the same segments
func (p Path) Equivalent(other Path) bool {
	return slices.Equal(p.Parts(), other.Parts())
}

// Join appends name as a new trailing segment
func (p Path) Join(name string) Path {
	if strings.HasSuffix(p.raw, Separator) {
		return Path{raw: p.raw + name}
	}
	return Path{raw: p.raw + Separator + name}
}
