package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// BuildFingerprint derives the canonical identity of an attribute set: pairs
// canonicalized, deduped (last occurrence wins), sorted by key and joined as
// "k=v" with "|". The hash is the SHA-256 hex of the fingerprint. An empty
// set yields ("", ""): no attributes means no identity, and such records are
// exempt from uniqueness enforcement.
//
// The result is order-independent and case/whitespace-insensitive by
// construction.
func BuildFingerprint(attrs []Attribute) (fingerprint, hash string) {
	set := CanonicalSet(attrs)
	if len(set) == 0 {
		return "", ""
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+set[k])
	}
	fingerprint = strings.Join(pairs, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	return fingerprint, hex.EncodeToString(sum[:])
}
