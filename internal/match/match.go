// Package match resolves human-entered names to provider ids.
package match

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/dvloznov/budget-share/internal/domain"
)

// DefaultCutoff is the minimum similarity a closest-name candidate must reach.
const DefaultCutoff = 0.6

// Entry is one named object eligible for resolution.
type Entry struct {
	ID   string
	Name string
}

// ResolveID maps a name to the id of the matching entry. Resolution is
// case-insensitive and runs in two stages: a substring scan in entry order
// (first hit wins), then a closest-name match with similarity at or above
// DefaultCutoff. Returns an error wrapping domain.ErrLookupUnresolved when
// neither stage finds a candidate.
func ResolveID(entries []Entry, name string) (string, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", fmt.Errorf("empty name: %w", domain.ErrLookupUnresolved)
	}

	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			return e.ID, nil
		}
	}

	var bestID string
	var bestScore float64
	for _, e := range entries {
		score := similarity(needle, strings.ToLower(e.Name))
		if score >= DefaultCutoff && score > bestScore {
			bestID, bestScore = e.ID, score
		}
	}
	if bestID == "" {
		return "", fmt.Errorf("no entry matching %q: %w", name, domain.ErrLookupUnresolved)
	}
	return bestID, nil
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
