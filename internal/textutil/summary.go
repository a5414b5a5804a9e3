package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CollapseWhitespace replaces every run of whitespace with a single space and
// trims the ends.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Truncate returns at most limit characters of value. Text is NFC-normalized
// first so a decomposed accent counts as one character.
func Truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	value = norm.NFC.String(value)
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	count := 0
	for i := range value {
		if count == limit {
			return value[:i]
		}
		count++
	}
	return value
}

// Summarize prepares page text for a single report line: whitespace is
// collapsed, the ends trimmed, and the result cut to limit characters.
func Summarize(value string, limit int) string {
	return Truncate(CollapseWhitespace(value), limit)
}
