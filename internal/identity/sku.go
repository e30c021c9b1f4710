package identity

import (
	"sort"
	"strings"
)

// fallbackHead is used when no Type attribute is present at all.
const fallbackHead = "PRD"

var typeCodes = map[string]string{
	"collar":       "COL",
	"dispenser":    "DPS",
	"feeder":       "FDR",
	"smart module": "SMF",
}

// Per-key value code tables. Unmapped values fall back to SKUToken, which
// keeps the encoder total without locking every vocabulary in advance.
var valueCodes = map[string]map[string]string{
	"color": {"black": "BLK", "white": "WHT", "blue": "BLU"},
	"power": {"usb-c": "USBC"},
}

// keyOrder is the semantic priority of attribute keys in an encoded SKU.
// Unlisted keys sort alphabetically after these.
var keyOrder = []string{
	"size",
	"capacity",
	"color",
	"filtration",
	"pump & hygiene",
	"power",
	"power mode",
	"smart add-ons",
	"bowl material",
	"feature",
	"name",
	"compatible with",
}

var keyRank = func() map[string]int {
	m := make(map[string]int, len(keyOrder))
	for i, k := range keyOrder {
		m[k] = i
	}
	return m
}()

// EncodeSKU derives a deterministic human-readable SKU from an attribute
// set: a head code from the Type attribute followed by one code per
// remaining attribute in semantic priority order, joined with hyphens.
// Identical canonical attribute sets always encode to the identical string.
func EncodeSKU(attrs []Attribute) string {
	typ := Canonicalize(Get(attrs, "type"))

	head := typeCodes[typ]
	if head == "" {
		head = SKUToken(typ)
		if len(head) > 3 {
			head = head[:3]
		}
	}
	if head == "" {
		head = fallbackHead
	}

	parts := []string{head}
	for _, a := range sortedTail(attrs) {
		if code := lookupCode(a.K, a.V); code != "" {
			parts = append(parts, code)
		}
	}

	return collapseHyphens(strings.Join(parts, "-"))
}

// sortedTail returns the non-Type attributes ordered by keyRank, then
// alphabetically by canonical key for unranked ones.
func sortedTail(attrs []Attribute) []Attribute {
	tail := make([]Attribute, 0, len(attrs))
	for _, a := range Clean(attrs) {
		if Canonicalize(a.K) == "type" {
			continue
		}
		tail = append(tail, a)
	}

	sort.SliceStable(tail, func(i, j int) bool {
		ki, kj := Canonicalize(tail[i].K), Canonicalize(tail[j].K)
		ri, ok := keyRank[ki]
		if !ok {
			ri = len(keyOrder) + 1
		}
		rj, ok := keyRank[kj]
		if !ok {
			rj = len(keyOrder) + 1
		}
		if ri == rj {
			return ki < kj
		}
		return ri < rj
	})
	return tail
}

func lookupCode(key, value string) string {
	if table, ok := valueCodes[Canonicalize(key)]; ok {
		if code, ok := table[Canonicalize(value)]; ok {
			return code
		}
	}
	return SKUToken(value)
}

func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
