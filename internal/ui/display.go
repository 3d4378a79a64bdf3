package ui

import "unicode/utf8"

// TrimLength is the default display limit for long entries.
const TrimLength = 100

// DisplayText returns s as shown in the list: when trim is on and s has more
// than limit runes, its first limit runes followed by "...".
func DisplayText(s string, trim bool, limit int) string {
	if !trim || limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
