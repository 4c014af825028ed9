package stats

import (
	"testing"

	"github.com/verte-zerg/cogni/internal/model"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]model.StoredGameResult{
		{Accuracy: 100, Score: 50, CorrectAnswers: 10, TotalRounds: 10},
		{Accuracy: 50, Score: 80, CorrectAnswers: 5, TotalRounds: 10},
	})
	if s.Games != 2 || s.AvgAccuracy != 75 || s.AvgScore != 65 || s.BestScore != 80 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.PerfectGames != 1 || s.TotalCorrect != 15 || s.TotalRounds != 20 {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if (Summarize(nil) != Summary{}) {
		t.Fatalf("empty input must give zero summary")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("flat series should use the middle glyph, got %q", got)
	}
}

func TestWeakestDomains(t *testing.T) {
	scores := map[model.Domain]int{
		model.DomainMemory:      70,
		model.DomainAttention:   40,
		model.DomainSpeed:       40,
		model.DomainFlexibility: 90,
	}
	got := WeakestDomains(scores, 2)
	if len(got) != 2 || got[0] != model.DomainAttention || got[1] != model.DomainSpeed {
		t.Fatalf("unexpected weakest domains: %v", got)
	}
	if all := WeakestDomains(scores, 0); len(all) != 4 {
		t.Fatalf("expected all scored domains, got %v", all)
	}
}

func TestTopGames(t *testing.T) {
	results := []model.StoredGameResult{
		{GameID: "b"}, {GameID: "a"}, {GameID: "b"}, {GameID: "c"}, {GameID: "a"},
	}
	top := TopGames(results, 2)
	if len(top) != 2 || top[0].GameID != "a" || top[1].GameID != "b" || top[0].Games != 2 {
		t.Fatalf("unexpected order: %+v", top)
	}
}
