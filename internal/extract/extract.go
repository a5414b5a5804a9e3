package extract

import "regexp"

// nonSpace matches any character that is not whitespace, Unicode separators
// (no-break, thin, ideographic spaces) included.
const nonSpace = `[^\s\p{Z}\x{85}\x{1c}-\x{1f}]`

// urlPattern matches, in priority order at each position, an http(s) link, a
// www-prefixed host, or a bare domain with an optional path.
var urlPattern = regexp.MustCompile(`(https?://` + nonSpace + `+|www\.` + nonSpace + `+|[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/` + nonSpace + `*)?)`)

// URLs returns the distinct URL-like substrings of text in first-seen order.
// Matching is on the raw substring: scheme, case and trailing slashes are not
// normalized, so "Example.com" and "https://example.com" are both kept.
func URLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		urls = append(urls, match)
	}
	return urls
}
