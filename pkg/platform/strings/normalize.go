// Package strings provides normalization helpers for free-text form fields.
package strings

import (
	"strings"
)

// DedupeFold trims each element, drops empties and removes duplicates that
// differ only in case. The first spelling seen wins and order is preserved.
//
// Example:
//
//	DedupeFold([]string{" Survey Plan ", "survey plan", "Tax Receipt", ""})
//	// Returns: []string{"Survey Plan", "Tax Receipt"}
func DedupeFold(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// CollapseSpaces trims s and folds internal whitespace runs into one space.
//
//	CollapseSpaces("  John   Mukasa ") // "John Mukasa"
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
