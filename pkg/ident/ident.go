// Package ident derives canonical page identifiers from raw file names.
//
// Two derivation rules exist and must stay separate. Raw page file names
// carry an image extension ("1897_page007.jpg"); their canonical form drops
// the extension. Raw annotation file names are stored without an extension
// and instead carry a trailing segment naming the individual region
// ("1897_page007/anzeige_03"); their canonical form is the parent segment.
// Both rules are deterministic and never fail: malformed input is returned
// unchanged.
package ident

import (
	"strings"
)

// PageKey strips the final extension from a raw page file name.
// Only the extension of the last path element is removed, so directory
// names containing dots are left intact. A name without an extension is
// returned as is.
func PageKey(raw string) string {
	base := raw
	dir := ""
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		dir = raw[:i+1]
		base = raw[i+1:]
	}
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		// no extension, or a dotfile like ".hidden"
		return raw
	}
	return dir + base[:i]
}

// AnnotationPageKey extracts the page identifier from a raw annotation
// file name by taking everything before the last path separator.
// A name without a separator is returned unchanged.
func AnnotationPageKey(raw string) string {
	if i := strings.LastIndexByte(raw, '/'); i >= 0 {
		return raw[:i]
	}
	return raw
}
