package base

import "strings"

// TruncateString truncates a string to maxWidth runes with ellipsis
func TruncateString(s string, maxWidth int) string {
	r := []rune(s)
	if len(r) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return string(r[:maxWidth])
	}
	return string(r[:maxWidth-3]) + "..."
}

// OneLine collapses every run of whitespace, newlines included, into a
// single space.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Preview renders s on one line, cut to width.
func Preview(s string, width int) string {
	return TruncateString(OneLine(s), width)
}
