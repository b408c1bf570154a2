// Package sanitizer normalizes free-text fields before validation and
// storage: trims, collapses internal whitespace runs to a single space.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeNotes bounds and normalizes booking notes.
func NormalizeNotes(notes string) string {
	return TrimAndNormalize(notes)
}
