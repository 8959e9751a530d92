package entity

import (
	"sort"
	"strings"
)

// NormalizeHeaders folds header names to lowercase and keeps only the first value
// of each name. A name with no values maps to the empty string.
func NormalizeHeaders(raw map[string][]string) map[string]string {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	// Sorted so that two raw names folding to the same key resolve the same way every time.
	sort.Strings(names)

	normalized := make(map[string]string, len(raw))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, seen := normalized[key]; seen {
			continue
		}
		values := raw[name]
		if len(values) == 0 {
			normalized[key] = ""
			continue
		}
		normalized[key] = values[0]
	}
	return normalized
}
