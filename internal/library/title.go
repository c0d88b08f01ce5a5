package library

import "strings"

// ParseTitle splits a trailing volume marker from a book title.
// "One Piece #1" yields ("One Piece", "1"); a title without a marker is
// returned whole with an empty volume. The marker is the last " #"
// followed by a numeric volume (fractional volumes like "20.5" count).
func ParseTitle(title string) (series, volume string) {
	idx := strings.LastIndex(title, " #")
	if idx < 0 {
		return title, ""
	}

	vol := title[idx+2:]
	if !isVolume(vol) {
		return title, ""
	}
	return title[:idx], vol
}

// isVolume reports whether s looks like a volume number: one or more
// digits with at most one decimal point.
func isVolume(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
