// Package textx holds text normalization helpers for user input that ends up
// inside model prompts.
package textx

import "strings"

// SanitizeText drops control characters from an utterance and trims the
// surrounding whitespace. Tab, newline, and carriage return survive so that
// multi-line input keeps its shape.
func SanitizeText(s string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 32 || r == 127:
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(clean)
}
