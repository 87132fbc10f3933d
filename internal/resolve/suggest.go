package resolve

import "github.com/wader/respect/internal/pbx"

// AllBaseNames returns every BaseName in idx, the candidate pool
// best_suggestion searches for a missing reference's nearest neighbor.
func AllBaseNames(idx *pbx.Index) []string {
	all := idx.All()
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.BaseName
	}
	return names
}
