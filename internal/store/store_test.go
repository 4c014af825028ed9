package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "cogni.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testResult(id string, d model.Domain, accuracy int, at time.Time) model.StoredGameResult {
	return model.StoredGameResult{
		ID:             id,
		GameID:         "quick-math",
		GameName:       "Quick Math",
		Domain:         d,
		Score:          accuracy * 3,
		Accuracy:       accuracy,
		Difficulty:     4,
		CompletedAt:    at,
		CorrectAnswers: accuracy / 10,
		TotalRounds:    10,
	}
}

func TestLoadDocumentMissing(t *testing.T) {
	st := openTestStore(t)
	doc, err := st.LoadDocument(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil document, got %q", doc)
	}
}

func TestSaveDocumentAndArchive(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	err := st.SaveDocument(ctx, progress.Changes{
		Document: []byte(`{"v":1}`),
		Appended: []model.StoredGameResult{
			testResult("a", model.DomainMemory, 80, base),
			testResult("b", model.DomainSpeed, 60, base.Add(time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	err = st.SaveDocument(ctx, progress.Changes{
		Document: []byte(`{"v":2}`),
		Appended: []model.StoredGameResult{
			testResult("b", model.DomainSpeed, 60, base.Add(time.Hour)),
			testResult("c", model.DomainMemory, 100, base.Add(2*time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	doc, err := st.LoadDocument(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc) != `{"v":2}` {
		t.Fatalf("expected latest document, got %q", doc)
	}

	results, err := st.ListResults(ctx, model.ReportConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 archived results, got %d", len(results))
	}
	if results[0].ID != "a" || results[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", results)
	}
	if !results[1].CompletedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("completed_at round trip failed: %v", results[1].CompletedAt)
	}

	memory, err := st.ListResults(ctx, model.ReportConfig{Domain: model.DomainMemory, Last: 1})
	if err != nil {
		t.Fatalf("list memory: %v", err)
	}
	if len(memory) != 1 || memory[0].ID != "c" {
		t.Fatalf("unexpected filtered results: %+v", memory)
	}

	since := base.Add(30 * time.Minute)
	recent, err := st.ListResults(ctx, model.ReportConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 results since cutoff, got %d", len(recent))
	}

	aggs, err := st.ListDomainAggregates(ctx, model.ReportConfig{})
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(aggs))
	}
	var mem model.DomainAggregate
	for _, a := range aggs {
		if a.Domain == model.DomainMemory {
			mem = a
		}
	}
	if mem.Games != 2 || mem.AvgAccuracy() != 90 || mem.BestScore != 300 || mem.TotalCorrect != 18 {
		t.Fatalf("unexpected memory aggregate: %+v", mem)
	}
}

func TestSaveDocumentReset(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	if err := st.SaveDocument(ctx, progress.Changes{
		Document: []byte(`{}`),
		Appended: []model.StoredGameResult{testResult("a", model.DomainMemory, 80, now)},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.SaveDocument(ctx, progress.Changes{Document: []byte(`{}`), Reset: true}); err != nil {
		t.Fatalf("reset save: %v", err)
	}
	results, err := st.ListResults(ctx, model.ReportConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected archive cleared, got %d", len(results))
	}
}

func TestProgressStoreRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	p := progress.New(progress.Options{Persister: st})
	p.GenerateTodayGames()
	p.RecordGameResult(ctx, model.StoredGameResult{GameID: "digit-span", GameName: "Digit Span", Domain: model.DomainMemory, Accuracy: 90, CorrectAnswers: 9, TotalRounds: 10})
	if err := p.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := progress.New(progress.Options{Persister: st})
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := reloaded.Stats().DomainScores[model.DomainMemory]; got != 90 {
		t.Fatalf("expected memory score 90, got %d", got)
	}
	if len(reloaded.TodayGames()) != len(model.Domains) {
		t.Fatalf("expected plan to survive reload")
	}
	archived, err := st.ListResults(ctx, model.ReportConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(archived) != 1 || archived[0].GameID != "digit-span" {
		t.Fatalf("unexpected archive: %+v", archived)
	}
}
