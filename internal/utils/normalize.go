package utils

import "strings"

// NormalizeAddress canonicalizes a free-text address for use as a cache key:
// lowercased, punctuation stripped, whitespace collapsed. "123 Main St,
// Springfield" and "123 main st  springfield" resolve to the same key.
func NormalizeAddress(address string) string {
	var b strings.Builder
	b.Grow(len(address))
	for _, r := range strings.ToLower(address) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
