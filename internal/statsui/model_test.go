package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/model"
)

type fakeProgress struct {
	stats    model.ProgressStats
	today    []model.TodayGame
	unlocked []model.UnlockedAchievement
}

func (p *fakeProgress) Stats() model.ProgressStats            { return p.stats }
func (p *fakeProgress) TodayGames() []model.TodayGame         { return p.today }
func (p *fakeProgress) Unlocked() []model.UnlockedAchievement { return p.unlocked }
func (p *fakeProgress) OverallScore() int                     { return achievement.OverallScore(p.stats) }

type fakeSource struct {
	results []model.StoredGameResult
	err     error
	lastCfg model.ReportConfig
}

func (s *fakeSource) ListResults(_ context.Context, cfg model.ReportConfig) ([]model.StoredGameResult, error) {
	s.lastCfg = cfg
	return s.results, s.err
}

func (s *fakeSource) ListDomainAggregates(context.Context, model.ReportConfig) ([]model.DomainAggregate, error) {
	return nil, s.err
}

func newFixture() (*fakeProgress, *fakeSource) {
	stats := model.DefaultStats()
	stats.TotalGamesPlayed = 2
	stats.CurrentStreak = 3
	stats.GamesPlayedToday = 2
	stats.LastPlayedDate = time.Now().Format(model.DateLayout)
	stats.LongestStreak = 5
	stats.DomainScores[model.DomainMemory] = 90
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	p := &fakeProgress{
		stats: stats,
		today: []model.TodayGame{
			{GameID: "digit-span", Domain: model.DomainMemory, Difficulty: 9, Completed: true,
				Result: &model.StoredGameResult{Accuracy: 90, Score: 120}},
			{GameID: "quick-compare", Domain: model.DomainSpeed, Difficulty: 5},
		},
		unlocked: []model.UnlockedAchievement{{AchievementID: "first-game", UnlockedAt: at}},
	}
	src := &fakeSource{results: []model.StoredGameResult{
		{ID: "a", GameID: "digit-span", GameName: "Digit Span", Domain: model.DomainMemory, Score: 100, Accuracy: 80, Difficulty: 5, CompletedAt: at},
		{ID: "b", GameID: "quick-math", GameName: "Quick Math", Domain: model.DomainProblemSolving, Score: 70, Accuracy: 60, Difficulty: 4, CompletedAt: at.Add(time.Hour)},
	}}
	return p, src
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestOverviewShowsProgress(t *testing.T) {
	p, src := newFixture()
	m := sized(NewModel(p, src, nil, nil, model.ReportConfig{CurveWindow: 2}))
	view := m.View()
	for _, want := range []string{"Overview", "Overall", "3 days", "Memory", "Accuracy Curve"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in overview:\n%s", want, view)
		}
	}
}

func TestOverviewHidesLapsedStreak(t *testing.T) {
	p, src := newFixture()
	p.stats.LastPlayedDate = "2024-06-01"
	m := NewModel(p, src, nil, nil, model.ReportConfig{CurveWindow: 2})
	m.now = func() time.Time { return time.Date(2024, 6, 5, 9, 0, 0, 0, time.Local) }
	view := sized(m).View()
	if strings.Contains(view, "3 days") || !strings.Contains(view, "0 days") {
		t.Fatalf("expected a lapsed streak to show as 0 days:\n%s", view)
	}
	if !strings.Contains(view, "5 days") {
		t.Fatalf("longest streak must still show:\n%s", view)
	}
}

func TestTodayTab(t *testing.T) {
	p, src := newFixture()
	m := sized(NewModel(p, src, nil, nil, model.ReportConfig{}))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabToday {
		t.Fatalf("expected today tab, got %d", m.activeTab)
	}
	view := m.View()
	if !strings.Contains(view, "1/2 done") || !strings.Contains(view, "Digit Span") || !strings.Contains(view, "90%") {
		t.Fatalf("unexpected today view:\n%s", view)
	}
}

func TestAchievementRowsOrder(t *testing.T) {
	cat := achievement.Default()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := achievementRows(cat, []model.UnlockedAchievement{
		{AchievementID: "first-game", UnlockedAt: at},
		{AchievementID: "streak-3", UnlockedAt: at.Add(48 * time.Hour)},
		{AchievementID: "retired-id", UnlockedAt: at},
	})
	if len(rows) != len(cat) {
		t.Fatalf("expected one row per catalog entry, got %d", len(rows))
	}
	if rows[0][1] != "On a Roll" {
		t.Fatalf("newest unlock should come first: %v", rows[0])
	}
	if rows[1][4] == "locked" || rows[2][4] != "locked" {
		t.Fatalf("unlocked rows must precede locked ones: %v %v", rows[1], rows[2])
	}
}

func TestHistoryRowsNewestFirst(t *testing.T) {
	_, src := newFixture()
	rows := historyRows(src.results)
	if len(rows) != 2 || rows[0][1] != "Quick Math" || rows[1][4] != "80%" {
		t.Fatalf("unexpected history rows: %v", rows)
	}
}

func TestFilterApply(t *testing.T) {
	p, src := newFixture()
	m := sized(NewModel(p, src, nil, nil, model.ReportConfig{CurveWindow: 5}))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[0].SetValue("memory")
	m.filterInputs[2].SetValue("10")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("filter should close after apply: %s", m.filterError)
	}
	if src.lastCfg.Domain != model.DomainMemory || src.lastCfg.Last != 10 || src.lastCfg.CurveWindow != 5 {
		t.Fatalf("unexpected applied config: %+v", src.lastCfg)
	}
}

func TestParseFilterErrors(t *testing.T) {
	cases := []struct {
		name                        string
		domain, since, last, window string
	}{
		{"domain", "nope", "", "", ""},
		{"since", "", "2024/01/01", "", ""},
		{"last", "", "", "-2", ""},
		{"window", "", "", "", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseFilter(tc.domain, tc.since, tc.last, tc.window); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSourceErrorIsShown(t *testing.T) {
	p, src := newFixture()
	src.err = errors.New("db locked")
	m := sized(NewModel(p, src, nil, nil, model.ReportConfig{}))
	if !strings.Contains(m.View(), "db locked") {
		t.Fatalf("expected error in footer")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	if nextCurveWindow(1) != 5 || nextCurveWindow(5) != 10 || nextCurveWindow(7) != 10 {
		t.Fatalf("unexpected next window")
	}
	if prevCurveWindow(5) != 1 || prevCurveWindow(10) != 5 || prevCurveWindow(12) != 10 {
		t.Fatalf("unexpected previous window")
	}
}
