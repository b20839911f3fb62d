package retrieval

// headRunes returns the first n runes of s. The caps in this package count
// characters, not bytes, so multibyte input must not be cut mid-rune.
func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	seen := 0
	for i := range s {
		if seen == n {
			return s[:i]
		}
		seen++
	}
	return s
}
