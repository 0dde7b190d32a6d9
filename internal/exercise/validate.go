package exercise

import "github.com/carnetlify/carnetlify/internal/catalog"

// Validate reports whether the candidate arrangement matches expected.
//
// Each category is compared as a set, in both directions: every placed item
// must be expected there and every expected item must be placed there.
// Categories missing from either side compare as empty. Order and the
// unassigned bucket are ignored.
func Validate(candidate map[string][]string, expected catalog.ExpectedAnswerSet) bool {
	for name, want := range expected {
		if !sameSet(candidate[name], want) {
			return false
		}
	}
	for name, got := range candidate {
		if name == catalog.Unassigned {
			continue
		}
		if _, ok := expected[name]; !ok && len(got) > 0 {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	inA := make(map[string]bool, len(a))
	for _, x := range a {
		inA[x] = true
	}
	inB := make(map[string]bool, len(b))
	for _, x := range b {
		inB[x] = true
		if !inA[x] {
			return false
		}
	}
	for x := range inA {
		if !inB[x] {
			return false
		}
	}
	return true
}
