package shared

import "strings"

// NormalizeSlug lower-cases s and reports whether it is a usable URL slug:
// letters, digits, '-' and '_' only, at most 160 characters.
func NormalizeSlug(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len(s) > 160 {
		return "", false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", false
		}
	}
	return s, true
}
