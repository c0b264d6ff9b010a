package domain

import "strings"

// NormalizeKey produces the lookup key used for dimension identity and
// deduplication: whitespace-trimmed and case-folded. The same function is
// used when building dimensions and when resolving fact rows, so every key
// the fact builder needs is guaranteed to exist.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
