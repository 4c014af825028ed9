package stats

import (
	"sort"

	"github.com/verte-zerg/cogni/internal/model"
)

// WeakestDomains returns up to top domains ordered by lowest skill score.
// Ties keep display order.
func WeakestDomains(scores map[model.Domain]int, top int) []model.Domain {
	candidates := make([]model.Domain, 0, len(model.Domains))
	for _, d := range model.Domains {
		if _, ok := scores[d]; ok {
			candidates = append(candidates, d)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i]] < scores[candidates[j]]
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
