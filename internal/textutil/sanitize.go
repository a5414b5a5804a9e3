package textutil

import "strings"

// SanitizeFileName turns an episode title into a safe file name. Path
// separators, colons and asterisks become dashes; quotes, wildcards, angle
// brackets and pipes are dropped. Leading dots are stripped so a title never
// yields a hidden file. Returns "episode" when nothing usable remains.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, CollapseWhitespace(name))
	name = strings.TrimLeft(strings.TrimSpace(name), ".")
	if name == "" {
		return "episode"
	}
	return name
}
