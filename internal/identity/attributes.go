package identity

import "strings"

// Attribute is one facet of a product, e.g. {Color, Red}. The short json
// names match the stored document shape.
type Attribute struct {
	K string `json:"k"`
	V string `json:"v"`
}

// Clean trims key/value, drops pairs that canonicalize to nothing, and
// collapses duplicate canonical keys. The last occurrence wins but the pair
// keeps the position of its first occurrence, so input order is respected.
func Clean(attrs []Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	pos := make(map[string]int, len(attrs))

	for _, a := range attrs {
		k := strings.TrimSpace(a.K)
		v := strings.TrimSpace(a.V)
		ck := Canonicalize(k)
		if ck == "" || Canonicalize(v) == "" {
			continue
		}
		if i, ok := pos[ck]; ok {
			out[i] = Attribute{K: k, V: v}
			continue
		}
		pos[ck] = len(out)
		out = append(out, Attribute{K: k, V: v})
	}
	return out
}

// CanonicalSet maps canonical key to canonical value. Duplicate canonical
// keys collapse with the last occurrence winning.
func CanonicalSet(attrs []Attribute) map[string]string {
	set := make(map[string]string, len(attrs))
	for _, a := range attrs {
		ck := Canonicalize(a.K)
		cv := Canonicalize(a.V)
		if ck == "" || cv == "" {
			continue
		}
		set[ck] = cv
	}
	return set
}

// Get returns the display value for the given key, compared canonically.
func Get(attrs []Attribute, key string) string {
	want := Canonicalize(key)
	for _, a := range attrs {
		if Canonicalize(a.K) == want {
			return strings.TrimSpace(a.V)
		}
	}
	return ""
}
