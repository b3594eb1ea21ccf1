package property

import (
	"strings"
	"unicode"
)

// Combine joins name segments into a canonical environment variable
// name. Each segment is trimmed, loses its whitespace and hyphens, has
// dots turned into underscores and surrounding underscores removed, and
// is upper-cased. Empty segments are dropped.
func Combine(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Map(func(r rune) rune {
			switch {
			case unicode.IsSpace(r), r == '-':
				return -1
			case r == '.':
				return '_'
			}
			return r
		}, p)
		p = strings.ToUpper(strings.Trim(p, "_"))
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "_")
}

// FirstNonEmpty returns the first non-empty string, or "".
func FirstNonEmpty(parts ...string) string {
	for _, p := range parts {
		if p != "" {
			return p
		}
	}
	return ""
}
