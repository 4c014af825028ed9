package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/games"
	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/progress"
	"github.com/verte-zerg/cogni/internal/session"
)

type fakeRecorder struct {
	results []model.StoredGameResult
	saves   int
	saveErr error
}

func (r *fakeRecorder) RecordGameResult(_ context.Context, result model.StoredGameResult) progress.RecordOutcome {
	r.results = append(r.results, result)
	return progress.RecordOutcome{
		Result:   result,
		Stats:    model.DefaultStats(),
		Unlocked: []model.UnlockedAchievement{{AchievementID: "first-game"}},
	}
}

func (r *fakeRecorder) Save(context.Context) error {
	r.saves++
	return r.saveErr
}

// steppingClock advances by step on every read.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func newTestModel(t *testing.T, gameID string, cfg model.PlayConfig, rec Recorder) *Model {
	t.Helper()
	game, ok := catalog.Default().Lookup(gameID)
	if !ok {
		t.Fatalf("unknown game %s", gameID)
	}
	body, ok := games.NewWithRand(gameID, rand.New(rand.NewSource(3)))
	if !ok {
		t.Fatalf("no body for %s", gameID)
	}
	return NewModel(Options{
		Game:         game,
		Body:         body,
		Config:       cfg,
		Recorder:     rec,
		Achievements: achievement.Default(),
		Clock:        steppingClock(200 * time.Millisecond),
	})
}

func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestFullSessionRecordsResult(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, "quick-compare", model.PlayConfig{Rounds: 3, Difficulty: 1}, rec)

	press(m, "enter")
	if got := m.Engine().Status(); got != session.StatusPlaying {
		t.Fatalf("zero countdown should start play, got %s", got)
	}
	for i := 0; i < 3; i++ {
		press(m, m.trial.Answer)
	}
	if got := m.Engine().Status(); got != session.StatusComplete {
		t.Fatalf("expected complete, got %s", got)
	}
	if len(rec.results) != 1 || rec.saves != 1 {
		t.Fatalf("expected one record and save, got %d/%d", len(rec.results), rec.saves)
	}
	res := rec.results[0]
	if res.GameID != "quick-compare" || res.Domain != model.DomainSpeed {
		t.Fatalf("unexpected result identity: %+v", res)
	}
	if res.Accuracy != 100 || res.CorrectAnswers != 3 || res.TotalRounds != 3 {
		t.Fatalf("unexpected tallies: %+v", res)
	}
	// 200ms answers beat the fast threshold, so every round scores double.
	if res.Score != 60 {
		t.Fatalf("expected score 60, got %d", res.Score)
	}
	st := m.Engine().State()
	if len(st.ReactionTimes) != 3 || st.ReactionTimes[0] != 200 {
		t.Fatalf("unexpected reaction times: %v", st.ReactionTimes)
	}
	if _, ok := m.Outcome(); !ok {
		t.Fatalf("expected outcome")
	}
	if view := m.View(); !strings.Contains(view, "Unlocked: First Steps") {
		t.Fatalf("completion screen should list unlocked achievements:\n%s", view)
	}

	press(m, "r")
	if got := m.Engine().Status(); got != session.StatusInstructions {
		t.Fatalf("expected instructions after restart, got %s", got)
	}
	if _, ok := m.Outcome(); ok {
		t.Fatalf("restart must clear the outcome")
	}
}

func TestWrongAnswersScoreNothing(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, "rule-switch", model.PlayConfig{Rounds: 2, Difficulty: 2}, rec)
	press(m, "enter")
	for i := 0; i < 2; i++ {
		wrong := m.trial.Choices[0]
		if wrong == m.trial.Answer {
			wrong = m.trial.Choices[1]
		}
		press(m, wrong)
	}
	res := rec.results[0]
	if res.Accuracy != 0 || res.Score != 0 || res.Difficulty != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestPauseBlocksInput(t *testing.T) {
	m := newTestModel(t, "quick-compare", model.PlayConfig{Rounds: 3, Difficulty: 1}, &fakeRecorder{})
	press(m, "enter")
	press(m, "esc")
	if got := m.Engine().Status(); got != session.StatusPaused {
		t.Fatalf("expected paused, got %s", got)
	}
	press(m, m.trial.Answer)
	if m.Engine().State().Responses != 0 {
		t.Fatalf("paused session must ignore answers")
	}
	press(m, "p")
	if got := m.Engine().Status(); got != session.StatusPlaying {
		t.Fatalf("expected playing after resume, got %s", got)
	}
	press(m, m.trial.Answer)
	if m.Engine().State().Responses != 1 {
		t.Fatalf("expected one response after resume")
	}
}

func TestEndEarlyFromPause(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, "quick-compare", model.PlayConfig{Rounds: 10, Difficulty: 1}, rec)
	press(m, "enter")
	press(m, m.trial.Answer)
	press(m, "p")
	press(m, "e")
	if got := m.Engine().Status(); got != session.StatusComplete {
		t.Fatalf("expected complete, got %s", got)
	}
	if len(rec.results) != 1 || rec.results[0].TotalRounds != 1 {
		t.Fatalf("expected partial result, got %+v", rec.results)
	}
}

func TestEndWithoutResponsesSkipsRecording(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, "quick-compare", model.PlayConfig{Rounds: 5, Difficulty: 1}, rec)
	press(m, "enter")
	press(m, "p")
	press(m, "e")
	if len(rec.results) != 0 || rec.saves != 0 {
		t.Fatalf("empty session must not be recorded")
	}
}

func TestPracticeIsDiscarded(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, "quick-compare", model.PlayConfig{Rounds: 2, Difficulty: 1, Practice: true}, rec)
	m.Init()
	if !m.Engine().IsPractice() {
		t.Fatalf("practice flag should start in practice")
	}
	press(m, m.trial.Answer)
	press(m, m.trial.Answer)
	if !m.practiceDone {
		t.Fatalf("expected practice finished")
	}
	if len(rec.results) != 0 {
		t.Fatalf("practice must not be recorded")
	}
	press(m, "enter")
	st := m.Engine().State()
	if st.Status != session.StatusPlaying || st.Responses != 0 || st.Score != 0 || st.CurrentRound != 1 {
		t.Fatalf("practice tallies must be discarded: %+v", st)
	}
}

func TestCountdownTicks(t *testing.T) {
	m := newTestModel(t, "quick-compare", model.PlayConfig{Rounds: 2, Difficulty: 1, Countdown: 2}, &fakeRecorder{})
	if cmd := press(m, "enter"); cmd == nil {
		t.Fatalf("expected tick command")
	}
	if got := m.Engine().Status(); got != session.StatusCountdown {
		t.Fatalf("expected countdown, got %s", got)
	}
	m.Update(countdownMsg{seq: m.seq - 1})
	if m.countdown != 2 {
		t.Fatalf("stale tick must be ignored")
	}
	m.Update(countdownMsg{seq: m.seq})
	if m.countdown != 1 || m.Engine().Status() != session.StatusCountdown {
		t.Fatalf("expected one second left")
	}
	m.Update(countdownMsg{seq: m.seq})
	if got := m.Engine().Status(); got != session.StatusPlaying {
		t.Fatalf("expected playing, got %s", got)
	}
}

func TestDigitSpanMemorizePhase(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, "digit-span", model.PlayConfig{Rounds: 1, Difficulty: 1}, rec)
	if cmd := press(m, "enter"); cmd == nil {
		t.Fatalf("expected reveal tick")
	}
	if !m.memorizing {
		t.Fatalf("expected memorize phase")
	}
	answer := m.trial.Answer
	press(m, answer)
	press(m, "enter")
	if m.Engine().State().Responses != 0 {
		t.Fatalf("input during memorize phase must be ignored")
	}
	m.Update(revealMsg{seq: m.seq})
	if m.memorizing {
		t.Fatalf("expected recall phase")
	}
	press(m, answer)
	press(m, "enter")
	if len(rec.results) != 1 || rec.results[0].Accuracy != 100 {
		t.Fatalf("expected perfect result, got %+v", rec.results)
	}
}

func TestDifficultyKeys(t *testing.T) {
	m := newTestModel(t, "quick-math", model.PlayConfig{Rounds: 1, Difficulty: 10}, &fakeRecorder{})
	press(m, "+")
	if got := m.Engine().State().Difficulty; got != 10 {
		t.Fatalf("difficulty must clamp at 10, got %d", got)
	}
	press(m, "-")
	press(m, "-")
	if got := m.Engine().State().Difficulty; got != 8 {
		t.Fatalf("expected level 8, got %d", got)
	}
}

func TestSaveErrorIsShown(t *testing.T) {
	rec := &fakeRecorder{saveErr: errors.New("disk full")}
	m := newTestModel(t, "quick-compare", model.PlayConfig{Rounds: 1, Difficulty: 1}, rec)
	press(m, "enter")
	press(m, m.trial.Answer)
	if m.SaveErr() == nil {
		t.Fatalf("expected save error")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Fatalf("expected save error in view")
	}
}
