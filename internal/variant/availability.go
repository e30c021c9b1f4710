package variant

import (
	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/model"
)

// OptionValue is one selectable value of an attribute key and whether any
// in-stock family member still carries it under the current selections.
type OptionValue struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
}

// CleanSelections canonicalizes a selection map and drops entries whose key
// or value canonicalizes to nothing. An absent or empty selection is ignored
// rather than treated as a filter.
func CleanSelections(selections map[string]string) map[string]string {
	out := make(map[string]string, len(selections))
	for k, v := range selections {
		ck := identity.Canonicalize(k)
		cv := identity.Canonicalize(v)
		if ck == "" || cv == "" {
			continue
		}
		out[ck] = cv
	}
	return out
}

// ComputeAvailability runs the universe/reachable pass over the fetched
// family members.
//
// Universe: every (key,value) pair observed on any member, stock ignored,
// minus the Kind marker. Reachable: pairs observed on members that are in
// stock and satisfy every selection, where satisfying means carrying that
// exact canonical pair; members lacking a selected key are excluded.
// Selections combine with logical AND and each key is evaluated
// independently; attributes are orthogonal facets, not a dependency graph.
//
// Output order follows first observation across members, and values echo the
// first-seen display casing.
func ComputeAvailability(members []model.Product, selections map[string]string) map[string][]OptionValue {
	sel := CleanSelections(selections)

	type valueEntry struct {
		display string
		canon   string
	}
	keySeen := []string{}                      // canonical keys in first-seen order
	displayKey := map[string]string{}          // canonical key -> first-seen display key
	valuesByKey := map[string][]valueEntry{}   // canonical key -> observed values
	valueSeen := map[string]map[string]bool{}  // canonical key -> canonical value seen
	reachable := map[string]map[string]bool{}  // canonical key -> canonical value reachable

	for _, m := range members {
		for _, a := range m.Attributes {
			ck := identity.Canonicalize(a.K)
			cv := identity.Canonicalize(a.V)
			if ck == "" || cv == "" || ck == kindKey {
				continue
			}
			if _, ok := valueSeen[ck]; !ok {
				valueSeen[ck] = map[string]bool{}
				keySeen = append(keySeen, ck)
				displayKey[ck] = a.K
			}
			if !valueSeen[ck][cv] {
				valueSeen[ck][cv] = true
				valuesByKey[ck] = append(valuesByKey[ck], valueEntry{display: a.V, canon: cv})
			}
		}

		if m.StockAmount <= 0 {
			continue
		}
		set := identity.CanonicalSet(m.Attributes)
		if !satisfies(set, sel) {
			continue
		}
		for ck, cv := range set {
			if ck == kindKey {
				continue
			}
			if reachable[ck] == nil {
				reachable[ck] = map[string]bool{}
			}
			reachable[ck][cv] = true
		}
	}

	byOption := make(map[string][]OptionValue, len(keySeen))
	for _, ck := range keySeen {
		values := make([]OptionValue, 0, len(valuesByKey[ck]))
		for _, v := range valuesByKey[ck] {
			values = append(values, OptionValue{
				Value:     v.display,
				Available: reachable[ck][v.canon],
			})
		}
		byOption[displayKey[ck]] = values
	}
	return byOption
}

// satisfies reports whether a member's canonical attribute set carries every
// selected pair. No "don't care" matching: a missing key fails the check.
func satisfies(set, sel map[string]string) bool {
	for k, v := range sel {
		if set[k] != v {
			return false
		}
	}
	return true
}
