package achievement

import (
	"testing"
	"time"

	"github.com/verte-zerg/cogni/internal/model"
)

func TestFirstGameUnlocksAtOneGame(t *testing.T) {
	c := Default()
	stats := model.DefaultStats()
	now := time.Unix(1000, 0)
	if got := c.Evaluate(stats, nil, now); len(got) != 0 {
		t.Fatalf("expected nothing for fresh stats, got %+v", got)
	}
	stats.TotalGamesPlayed = 1
	got := c.Evaluate(stats, nil, now)
	if !containsID(got, "first-game") {
		t.Fatalf("expected first-game, got %+v", got)
	}
	for _, u := range got {
		if !u.UnlockedAt.Equal(now) {
			t.Fatalf("batch must share one timestamp")
		}
	}
	again := c.Evaluate(stats, got, now.Add(time.Hour))
	if containsID(again, "first-game") {
		t.Fatalf("already unlocked achievements must be skipped")
	}
}

func TestThresholdRules(t *testing.T) {
	stats := model.DefaultStats()
	stats.CurrentStreak = 7
	stats.LongestStreak = 7
	stats.PerfectGames = 1
	stats.DomainScores[model.DomainMemory] = 85
	got := Default().Evaluate(stats, nil, time.Now())
	for _, id := range []string{"streak-3", "streak-7", "perfect-1", "master-memory"} {
		if !containsID(got, id) {
			t.Fatalf("expected %s in %+v", id, got)
		}
	}
	for _, id := range []string{"streak-30", "perfect-10", "master-speed"} {
		if containsID(got, id) {
			t.Fatalf("did not expect %s", id)
		}
	}
}

func TestPredicateRules(t *testing.T) {
	stats := model.DefaultStats()
	for _, d := range model.Domains {
		stats.DomainGamesPlayed[d] = 1
		stats.DomainScores[d] = 65
	}
	got := Default().Evaluate(stats, nil, time.Now())
	if !containsID(got, "all-domains") || !containsID(got, "well-rounded") {
		t.Fatalf("expected exploration and balance achievements, got %+v", got)
	}
	stats.DomainGamesPlayed[model.DomainSpeed] = 0
	got = Default().Evaluate(stats, nil, time.Now())
	if containsID(got, "all-domains") {
		t.Fatalf("all-domains requires every domain")
	}
}

func TestOverallScore(t *testing.T) {
	stats := model.DefaultStats()
	stats.DomainScores[model.DomainMemory] = 90
	stats.DomainScores[model.DomainSpeed] = 73
	// (90+50+73+50+50)/5 = 62.6
	if got := OverallScore(stats); got != 63 {
		t.Fatalf("expected 63, got %d", got)
	}
}

func TestCatalogIDsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for _, a := range Default() {
		if _, ok := seen[a.ID]; ok {
			t.Fatalf("duplicate achievement id %s", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	if _, ok := Default().Lookup("first-game"); !ok {
		t.Fatalf("expected first-game in catalog")
	}
}

func containsID(list []model.UnlockedAchievement, id string) bool {
	for _, u := range list {
		if u.AchievementID == id {
			return true
		}
	}
	return false
}
