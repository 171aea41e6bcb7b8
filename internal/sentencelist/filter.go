package sentencelist

import "unicode"

// Practicable reports whether s can be typed into a single-line field:
// non-empty and free of control characters such as tabs and newlines.
func Practicable(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
