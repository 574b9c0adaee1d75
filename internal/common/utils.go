package common

import "strings"

// MatchesAny reports whether s, trimmed, equals any of the non-empty codes,
// ignoring case.
func MatchesAny(s string, codes ...string) bool {
	s = strings.TrimSpace(s)
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if strings.EqualFold(s, code) {
			return true
		}
	}
	return false
}
