package validators

import "strings"

// SanitizeString trims whitespace and caps length. The cap counts runes, not
// bytes, so Arabic input is never cut mid-character.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 {
		runes := []rune(trimmed)
		if len(runes) > maxLen {
			return string(runes[:maxLen])
		}
	}
	return trimmed
}
