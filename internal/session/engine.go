// Package session implements the per-game session state machine.
package session

import (
	"math"
	"time"

	"github.com/verte-zerg/cogni/internal/timer"
)

// Status is the lifecycle stage of a session.
type Status string

// Session statuses.
const (
	StatusInstructions Status = "instructions"
	StatusCountdown    Status = "countdown"
	StatusPlaying      Status = "playing"
	StatusPractice     Status = "practice"
	StatusPaused       Status = "paused"
	StatusComplete     Status = "complete"
)

// Difficulty bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// State is a snapshot of a session.
type State struct {
	Status        Status
	CurrentRound  int
	TotalRounds   int
	Difficulty    int
	Score         int
	Accuracy      int
	Streak        int
	BestStreak    int
	Correct       int
	Responses     int
	ReactionTimes []int64
}

// Engine drives one game instance from instructions to completion.
// Calls made from a status that does not allow them are ignored and return false.
type Engine struct {
	totalRounds       int
	initialDifficulty int

	status       Status
	resumeStatus Status
	currentRound int
	difficulty   int
	score        int
	streak       int
	bestStreak   int
	correct      int
	responses    int
	reactions    []int64

	timer *timer.ReactionTimer
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used by the engine's reaction timer.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.timer = timer.NewWithClock(now)
	}
}

// New creates an engine in the instructions state.
func New(totalRounds, initialDifficulty int, opts ...Option) *Engine {
	if totalRounds < 1 {
		totalRounds = 1
	}
	e := &Engine{
		totalRounds:       totalRounds,
		initialDifficulty: ClampDifficulty(initialDifficulty),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.timer == nil {
		e.timer = timer.New()
	}
	e.reset()
	return e
}

// ClampDifficulty bounds level to [MinDifficulty, MaxDifficulty].
func ClampDifficulty(level int) int {
	if level < MinDifficulty {
		return MinDifficulty
	}
	if level > MaxDifficulty {
		return MaxDifficulty
	}
	return level
}

func (e *Engine) reset() {
	e.status = StatusInstructions
	e.resumeStatus = ""
	e.difficulty = e.initialDifficulty
	e.clearTallies()
	e.timer.Stop()
}

func (e *Engine) clearTallies() {
	e.currentRound = 1
	e.score = 0
	e.streak = 0
	e.bestStreak = 0
	e.correct = 0
	e.responses = 0
	e.reactions = nil
}

// Timer returns the reaction timer owned by this session. Pausing the session
// suspends it.
func (e *Engine) Timer() *timer.ReactionTimer {
	return e.timer
}

// Status returns the current status.
func (e *Engine) Status() Status {
	return e.status
}

// IsPractice reports whether the session is in practice mode, including a paused practice.
func (e *Engine) IsPractice() bool {
	return e.status == StatusPractice || (e.status == StatusPaused && e.resumeStatus == StatusPractice)
}

// State returns a copy of the session state.
func (e *Engine) State() State {
	reactions := make([]int64, len(e.reactions))
	copy(reactions, e.reactions)
	return State{
		Status:        e.status,
		CurrentRound:  e.currentRound,
		TotalRounds:   e.totalRounds,
		Difficulty:    e.difficulty,
		Score:         e.score,
		Accuracy:      e.accuracy(),
		Streak:        e.streak,
		BestStreak:    e.bestStreak,
		Correct:       e.correct,
		Responses:     e.responses,
		ReactionTimes: reactions,
	}
}

// StartCountdown moves from instructions (or practice) to countdown.
// Leaving practice discards everything recorded during it.
func (e *Engine) StartCountdown() bool {
	switch e.status {
	case StatusInstructions:
	case StatusPractice:
		e.clearTallies()
		e.timer.Stop()
	default:
		return false
	}
	e.status = StatusCountdown
	return true
}

// StartGame moves from countdown to playing.
func (e *Engine) StartGame() bool {
	if e.status != StatusCountdown {
		return false
	}
	e.status = StatusPlaying
	return true
}

// StartPractice moves from instructions straight to practice.
func (e *Engine) StartPractice() bool {
	if e.status != StatusInstructions {
		return false
	}
	e.clearTallies()
	e.status = StatusPractice
	return true
}

// PauseGame suspends play or practice and the open reaction interval.
func (e *Engine) PauseGame() bool {
	if e.status != StatusPlaying && e.status != StatusPractice {
		return false
	}
	e.resumeStatus = e.status
	e.status = StatusPaused
	e.timer.Pause()
	return true
}

// ResumeGame returns to the status active before PauseGame.
func (e *Engine) ResumeGame() bool {
	if e.status != StatusPaused {
		return false
	}
	e.status = e.resumeStatus
	e.resumeStatus = ""
	e.timer.Resume()
	return true
}

// CompleteGame ends a playing session. It may be called before the last round.
func (e *Engine) CompleteGame() bool {
	if e.status != StatusPlaying {
		return false
	}
	e.status = StatusComplete
	e.timer.Stop()
	return true
}

// ResetGame returns to instructions with every field reinitialized.
func (e *Engine) ResetGame() {
	e.reset()
}

// SetDifficulty clamps level to [1,10]. It only takes effect before play starts.
func (e *Engine) SetDifficulty(level int) bool {
	switch e.status {
	case StatusInstructions, StatusCountdown, StatusPractice:
		e.difficulty = ClampDifficulty(level)
		return true
	default:
		return false
	}
}

// NextRound advances the round counter. It returns false when the last round
// is already active or the session is not accepting input.
func (e *Engine) NextRound() bool {
	if !e.acceptsInput() {
		return false
	}
	if e.currentRound >= e.totalRounds {
		return false
	}
	e.currentRound++
	return true
}

// ResponseOption decorates a recorded response.
type ResponseOption func(*response)

type response struct {
	reactionMs int64
	hasTime    bool
	points     int
}

// WithReactionTime attaches a measured latency in milliseconds.
func WithReactionTime(ms int64) ResponseOption {
	return func(r *response) {
		if ms < 0 {
			ms = 0
		}
		r.reactionMs = ms
		r.hasTime = true
	}
}

// WithPoints adds a game-specific score delta. Negative deltas are ignored.
func WithPoints(points int) ResponseOption {
	return func(r *response) {
		if points > 0 {
			r.points = points
		}
	}
}

// RecordResponse records one trial outcome. The round counter is not advanced.
func (e *Engine) RecordResponse(correct bool, opts ...ResponseOption) bool {
	if !e.acceptsInput() {
		return false
	}
	var r response
	for _, opt := range opts {
		opt(&r)
	}
	if r.hasTime {
		e.reactions = append(e.reactions, r.reactionMs)
	}
	e.responses++
	if correct {
		e.correct++
		e.streak++
		if e.streak > e.bestStreak {
			e.bestStreak = e.streak
		}
	} else {
		e.streak = 0
	}
	e.score += r.points
	return true
}

func (e *Engine) acceptsInput() bool {
	return e.status == StatusPlaying || e.status == StatusPractice
}

func (e *Engine) accuracy() int {
	return Accuracy(e.correct, e.responses)
}

// Accuracy returns round(100*correct/total), or 0 when nothing was recorded.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// AverageReaction returns the mean of the recorded reaction times in ms.
func (s State) AverageReaction() float64 {
	if len(s.ReactionTimes) == 0 {
		return 0
	}
	var sum int64
	for _, ms := range s.ReactionTimes {
		sum += ms
	}
	return float64(sum) / float64(len(s.ReactionTimes))
}
