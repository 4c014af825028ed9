package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/progress"
	"github.com/verte-zerg/cogni/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cogni.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var results []model.StoredGameResult
	for i := 0; i < 4; i++ {
		d := model.DomainMemory
		id, name := "digit-span", "Digit Span"
		if i%2 == 1 {
			d = model.DomainSpeed
			id, name = "quick-compare", "Quick Compare"
		}
		results = append(results, model.StoredGameResult{
			ID:             string(rune('a' + i)),
			GameID:         id,
			GameName:       name,
			Domain:         d,
			Score:          100 + i*10,
			Accuracy:       60 + i*10,
			Difficulty:     3,
			CompletedAt:    base.Add(time.Duration(i) * time.Hour),
			CorrectAnswers: 6 + i,
			TotalRounds:    10,
		})
	}
	if err := st.SaveDocument(context.Background(), progress.Changes{Document: []byte(`{}`), Appended: results}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}

func TestBuildReport(t *testing.T) {
	st := seedStore(t)
	cfg := model.ReportConfig{Last: 3, CurveWindow: 2}
	report, err := BuildReport(context.Background(), st, cfg, nil)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Results) != 3 || report.Results[0].ID != "b" {
		t.Fatalf("unexpected results: %+v", report.Results)
	}
	if len(report.Window) != 2 || report.Window[0].ID != "c" {
		t.Fatalf("unexpected window: %+v", report.Window)
	}
	if len(report.Aggregates) != 2 {
		t.Fatalf("aggregates must ignore --last, got %d", len(report.Aggregates))
	}
	if len(report.TopGames) != 2 || report.TopGames[0].GameID != "quick-compare" {
		t.Fatalf("unexpected top games: %+v", report.TopGames)
	}
}

func TestRenderReport(t *testing.T) {
	st := seedStore(t)
	scores := map[model.Domain]int{model.DomainMemory: 72, model.DomainSpeed: 40, model.DomainAttention: 55}
	report, err := BuildReport(context.Background(), st, model.ReportConfig{}, scores)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, report, 2, 60, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Games: 4", "Avg Accuracy: 75.0%", "Best Score: 130", "Domains", "Accuracy Curve", "Most Played", "Focus next: Speed, Attention"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
}

func TestRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Report{}, 5, 80, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No games found." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
