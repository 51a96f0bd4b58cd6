package index

import (
	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a "did you mean" candidate may be from
// the query.
const maxSuggestDistance = 3

// closestName returns the known symbol name nearest to query, or "" when
// nothing is close enough. Ties go to the lexically smaller name so the
// suggestion is deterministic.
func closestName(query string, names map[string]struct{}) string {
	best := ""
	bestDist := 0
	for name := range names {
		if name == query {
			continue
		}
		d := levenshtein.ComputeDistance(query, name)
		if d > maxSuggestDistance {
			continue
		}
		if best == "" || d < bestDist || (d == bestDist && name < best) {
			best = name
			bestDist = d
		}
	}
	return best
}
