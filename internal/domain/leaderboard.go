package domain

import (
	"fmt"
	"unicode/utf8"
)

// Ordinal renders a 1-based rank as 1st, 2nd, 3rd, 4th, ...
func Ordinal(rank int) string {
	suffix := "th"
	switch rank % 100 {
	case 11, 12, 13:
	default:
		switch rank % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", rank, suffix)
}

// DisplayName shortens long names for table output.
func DisplayName(name string) string {
	if utf8.RuneCountInString(name) <= MaxPlayerNameLen {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxPlayerNameLen-3]) + "..."
}
