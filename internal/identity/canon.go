package identity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonicalize normalizes free-form text for comparison and fingerprinting:
// NFKC, trim, lowercase, internal whitespace collapsed to a single space.
// Total function; empty input stays empty.
func Canonicalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SKUToken is the human-facing code transform, distinct from Canonicalize:
// NFKC, trim, uppercase, whitespace runs become hyphens, and everything
// outside [A-Z0-9.-] is stripped.
func SKUToken(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToUpper(strings.Join(strings.Fields(s), "-"))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeSKU is the canonical stored form of a SKU: trimmed and uppercased.
func NormalizeSKU(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
