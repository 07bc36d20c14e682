// Package utils provides small shared helpers for logging and text output.
package utils

// Truncate shortens s to at most max runes, appending "..." when it cuts.
// A non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
