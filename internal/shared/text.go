package shared

import "strings"

// FoldBR normalizes a search term the way the listings expect: trimmed and
// lowercased.
func FoldBR(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFoldBR reports whether s contains the already-folded term,
// case-insensitively.
func ContainsFoldBR(s, foldedTerm string) bool {
	return strings.Contains(strings.ToLower(s), foldedTerm)
}
