package helpers

import (
	"strings"
)

// ContainsAll reports whether lowered contains every term. Terms are
// lowercased; lowered must already be.
func ContainsAll(lowered string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(lowered, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether lowered contains at least one term.
func ContainsAny(lowered string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// NumericOnly keeps digits and decimal points, e.g. "$1,999.99*" -> "1999.99".
func NumericOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseSpace trims s and folds internal whitespace runs into single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
