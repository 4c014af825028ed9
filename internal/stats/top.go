package stats

import (
	"sort"

	"github.com/verte-zerg/cogni/internal/model"
)

// GameCount is how often a game was played.
type GameCount struct {
	GameID   string
	GameName string
	Games    int
}

// TopGames returns the n most played games, ties broken by id.
func TopGames(results []model.StoredGameResult, n int) []GameCount {
	if n <= 0 || len(results) == 0 {
		return nil
	}
	counts := map[string]*GameCount{}
	for _, r := range results {
		c, ok := counts[r.GameID]
		if !ok {
			c = &GameCount{GameID: r.GameID, GameName: r.GameName}
			counts[r.GameID] = c
		}
		c.Games++
	}
	items := make([]GameCount, 0, len(counts))
	for _, c := range counts {
		items = append(items, *c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Games == items[j].Games {
			return items[i].GameID < items[j].GameID
		}
		return items[i].Games > items[j].Games
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
