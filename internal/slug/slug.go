// Package slug derives URL-safe category identifiers from display labels.
package slug

import (
	"strconv"
	"strings"
)

// Fallback is the base used when a label has no slug-able characters.
const Fallback = "new-category"

// Slugify lowercases and trims label, replaces "&" with "and", collapses
// every run of characters outside [a-z0-9] into a single "-", and strips
// leading and trailing "-".
func Slugify(label string) string {
	s := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(label)), "&", "and")

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteByte(c)
			continue
		}
		dash = true
	}
	return b.String()
}

// Base returns Slugify(label), or Fallback when that is empty.
func Base(label string) string {
	if s := Slugify(label); s != "" {
		return s
	}
	return Fallback
}

// Unique returns base if it is free, otherwise the first of base-1,
// base-2, ... that is. exclude is treated as free even when taken reports
// it in use; a category being renamed passes its own id so it is never
// blocked by the id it is about to vacate.
func Unique(base string, taken func(id string) bool, exclude string) string {
	inUse := func(id string) bool {
		return id != exclude && taken(id)
	}
	if !inUse(base) {
		return base
	}
	for i := 1; ; i++ {
		id := base + "-" + strconv.Itoa(i)
		if !inUse(id) {
			return id
		}
	}
}
