// Package progress aggregates game results into durable user progress.
package progress

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/logger"
	"github.com/verte-zerg/cogni/internal/model"
)

// DefaultHistoryLimit caps the in-document result history.
const DefaultHistoryLimit = 500

const defaultSinkTimeout = 5 * time.Second

// Changes is everything a Persister writes on Save.
type Changes struct {
	Document []byte
	Appended []model.StoredGameResult
	Reset    bool
}

// Persister stores the progress document. LoadDocument returns nil when no
// document has been written yet.
type Persister interface {
	LoadDocument(ctx context.Context) ([]byte, error)
	SaveDocument(ctx context.Context, changes Changes) error
}

// ResultSink receives completed results for the remote mirror.
type ResultSink interface {
	Submit(ctx context.Context, payload model.ResultPayload) error
}

// Options configures a Store. Zero values select defaults.
type Options struct {
	Catalog      *catalog.Catalog
	Achievements achievement.Catalog
	Persister    Persister
	Sink         ResultSink
	UserID       string
	SinkTimeout  time.Duration
	HistoryLimit int
	Now          func() time.Time
	Rand         *rand.Rand
	Logger       *logger.Logger
}

// Store owns the progress state for the application lifetime.
type Store struct {
	mu sync.Mutex
	wg sync.WaitGroup

	catalog      *catalog.Catalog
	achievements achievement.Catalog
	persister    Persister
	sink         ResultSink
	userID       string
	sinkTimeout  time.Duration
	historyLimit int
	now          func() time.Time
	rnd          *rand.Rand
	log          *logger.Logger

	state    model.ProgressState
	appended []model.StoredGameResult
	reset    bool
	// gen changes whenever appended is discarded wholesale (reset or load).
	gen uint64
}

// RecordOutcome describes the effect of one recorded result.
type RecordOutcome struct {
	Result   model.StoredGameResult
	Stats    model.ProgressStats
	Unlocked []model.UnlockedAchievement
}

// New returns a Store holding default state. Call Load to rehydrate.
func New(opts Options) *Store {
	s := &Store{
		catalog:      opts.Catalog,
		achievements: opts.Achievements,
		persister:    opts.Persister,
		sink:         opts.Sink,
		userID:       opts.UserID,
		sinkTimeout:  opts.SinkTimeout,
		historyLimit: opts.HistoryLimit,
		now:          opts.Now,
		rnd:          opts.Rand,
		log:          opts.Logger,
		state:        model.DefaultState(),
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.achievements == nil {
		s.achievements = achievement.Default()
	}
	if s.sinkTimeout <= 0 {
		s.sinkTimeout = defaultSinkTimeout
	}
	if s.historyLimit <= 0 {
		s.historyLimit = DefaultHistoryLimit
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Achievements returns the catalog used for evaluation.
func (s *Store) Achievements() achievement.Catalog {
	return s.achievements
}

// Catalog returns the game catalog used for plans.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// RecordGameResult appends result to history, updates stats and achievements,
// and marks the matching plan entry complete, as one step.
func (s *Store) RecordGameResult(ctx context.Context, result model.StoredGameResult) RecordOutcome {
	s.mu.Lock()
	now := s.now()
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = now
	}
	result.Accuracy = clampScore(result.Accuracy)

	s.state.GameResults = append(s.state.GameResults, result)
	if over := len(s.state.GameResults) - s.historyLimit; over > 0 {
		s.state.GameResults = append([]model.StoredGameResult(nil), s.state.GameResults[over:]...)
	}
	s.appended = append(s.appended, result)

	s.updateStats(result, now)
	unlocked := s.achievements.Evaluate(s.state.Stats, s.state.UnlockedAchievements, now)
	s.state.UnlockedAchievements = append(s.state.UnlockedAchievements, unlocked...)
	s.markComplete(result.GameID, result, now)

	outcome := RecordOutcome{
		Result:   result,
		Stats:    s.state.Stats.Clone(),
		Unlocked: unlocked,
	}
	s.mu.Unlock()

	s.log.Info("recorded game result",
		"game", result.GameID,
		"domain", result.Domain,
		"accuracy", result.Accuracy,
		"streak", outcome.Stats.CurrentStreak,
		"unlocked", len(unlocked),
	)
	s.submit(ctx, result)
	return outcome
}

func (s *Store) updateStats(result model.StoredGameResult, now time.Time) {
	stats := &s.state.Stats
	today := now.Format(model.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(model.DateLayout)

	switch stats.LastPlayedDate {
	case today:
		stats.GamesPlayedToday++
	case yesterday:
		stats.CurrentStreak++
		stats.GamesPlayedToday = 1
	default:
		stats.CurrentStreak = 1
		stats.GamesPlayedToday = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastPlayedDate = today

	stats.TotalGamesPlayed++
	if result.Accuracy == 100 {
		stats.PerfectGames++
	}
	if result.CorrectAnswers > 0 {
		stats.TotalCorrectAnswers += result.CorrectAnswers
	}

	if !result.Domain.Valid() {
		s.log.Warn("result has unknown domain", "game", result.GameID, "domain", result.Domain)
		return
	}
	played := stats.DomainGamesPlayed[result.Domain]
	old, ok := stats.DomainScores[result.Domain]
	if !ok {
		old = model.DefaultScore
	}
	stats.DomainScores[result.Domain] = NextDomainScore(old, result.Accuracy, played)
	stats.DomainGamesPlayed[result.Domain] = played + 1
}

// NextDomainScore blends accuracy into the current score. The first result in a
// domain replaces the score; later results weigh at most 30%.
func NextDomainScore(old, accuracy, played int) int {
	if played < 0 {
		played = 0
	}
	weight := math.Min(0.3, 1/float64(played+1))
	next := math.Round(float64(old)*(1-weight) + float64(accuracy)*weight)
	return clampScore(int(next))
}

func clampScore(v int) int {
	if v < model.MinScore {
		return model.MinScore
	}
	if v > model.MaxScore {
		return model.MaxScore
	}
	return v
}

func (s *Store) submit(ctx context.Context, result model.StoredGameResult) {
	if s.sink == nil || s.userID == "" {
		return
	}
	payload := model.PayloadFor(s.userID, result)
	base := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sctx, cancel := context.WithTimeout(base, s.sinkTimeout)
		defer cancel()
		if err := s.sink.Submit(sctx, payload); err != nil {
			s.log.Debug("result sync failed", "game", payload.GameID, "error", err)
		}
	}()
}

// GenerateTodayGames builds today's plan unless one already exists for today.
// It reports whether a new plan was generated.
func (s *Store) GenerateTodayGames() ([]model.TodayGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.now().Format(model.DateLayout)
	if s.state.TodayDate != nil && *s.state.TodayDate == today {
		return cloneToday(s.state.TodayGames), false
	}

	plan := make([]model.TodayGame, 0, len(model.Domains))
	for _, idx := range s.rnd.Perm(len(model.Domains)) {
		d := model.Domains[idx]
		games := s.catalog.ByDomain(d)
		if len(games) == 0 {
			s.log.Warn("no games for domain", "domain", d)
			continue
		}
		g := games[s.rnd.Intn(len(games))]
		plan = append(plan, model.TodayGame{
			GameID:     g.ID,
			Domain:     d,
			Difficulty: PlanDifficulty(s.state.Stats.DomainScores[d]),
		})
	}
	s.state.TodayGames = plan
	s.state.TodayDate = &today
	s.log.Info("generated today plan", "date", today, "games", len(plan))
	return cloneToday(plan), true
}

// PlanDifficulty maps a domain score to a difficulty level.
func PlanDifficulty(score int) int {
	level := int(math.Round(float64(score) / 10))
	if level < 1 {
		return 1
	}
	if level > 10 {
		return 10
	}
	return level
}

// MarkTodayGameComplete marks the plan entry for gameID complete. Unknown ids
// and plans from a previous day are ignored.
func (s *Store) MarkTodayGameComplete(gameID string, result model.StoredGameResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markComplete(gameID, result, s.now())
}

// planIsCurrent reports whether the stored plan was generated on now's day.
func (s *Store) planIsCurrent(now time.Time) bool {
	return s.state.TodayDate != nil && *s.state.TodayDate == now.Format(model.DateLayout)
}

func (s *Store) markComplete(gameID string, result model.StoredGameResult, now time.Time) bool {
	if !s.planIsCurrent(now) {
		return false
	}
	for i := range s.state.TodayGames {
		if s.state.TodayGames[i].GameID != gameID {
			continue
		}
		r := result
		s.state.TodayGames[i].Completed = true
		s.state.TodayGames[i].Result = &r
		return true
	}
	return false
}

// NextPlanned returns the first incomplete entry of today's plan.
func (s *Store) NextPlanned() (model.TodayGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.planIsCurrent(s.now()) {
		return model.TodayGame{}, false
	}
	for _, g := range s.state.TodayGames {
		if !g.Completed {
			return g, true
		}
	}
	return model.TodayGame{}, false
}

// OverallScore returns the rounded mean of the domain scores.
func (s *Store) OverallScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return achievement.OverallScore(s.state.Stats)
}

// ResetProgress restores first-run defaults. The archive is cleared on the next Save.
func (s *Store) ResetProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.DefaultState()
	s.appended = nil
	s.reset = true
	s.gen++
	s.log.Info("progress reset")
}

// Stats returns a copy of the aggregate stats.
func (s *Store) Stats() model.ProgressStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stats.Clone()
}

// TodayGames returns a copy of today's plan, or nil when no plan exists for today.
func (s *Store) TodayGames() []model.TodayGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.planIsCurrent(s.now()) {
		return nil
	}
	return cloneToday(s.state.TodayGames)
}

// History returns the retained results, oldest first.
func (s *Store) History() []model.StoredGameResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StoredGameResult(nil), s.state.GameResults...)
}

// Unlocked returns the unlocked achievements in unlock order.
func (s *Store) Unlocked() []model.UnlockedAchievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.UnlockedAchievement(nil), s.state.UnlockedAchievements...)
}

// State returns a deep copy of the whole document.
func (s *Store) State() model.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Load replaces the in-memory state with the persisted document. A missing or
// undecodable document leaves defaults in place.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	doc, err := s.persister.LoadDocument(ctx)
	if err != nil {
		return err
	}
	state := model.DefaultState()
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &state); err != nil {
			s.log.Warn("discarding unreadable progress document", "error", err)
			state = model.DefaultState()
		}
	}
	s.mu.Lock()
	s.state = normalize(state, s.historyLimit)
	s.appended = nil
	s.reset = false
	s.gen++
	s.mu.Unlock()
	return nil
}

// Save writes the whole document plus any results recorded since the last Save.
func (s *Store) Save(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	s.mu.Lock()
	doc, err := json.Marshal(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	changes := Changes{
		Document: doc,
		Appended: append([]model.StoredGameResult(nil), s.appended...),
		Reset:    s.reset,
	}
	gen := s.gen
	s.mu.Unlock()

	if err := s.persister.SaveDocument(ctx, changes); err != nil {
		return err
	}
	s.mu.Lock()
	// A reset or load during the write replaced appended; keep it and any
	// pending reset for the next Save.
	if s.gen == gen {
		s.appended = s.appended[len(changes.Appended):]
		if changes.Reset {
			s.reset = false
		}
	}
	s.mu.Unlock()
	return nil
}

// Close waits for in-flight sink submissions.
func (s *Store) Close() {
	s.wg.Wait()
}

func normalize(state model.ProgressState, limit int) model.ProgressState {
	if state.GameResults == nil {
		state.GameResults = []model.StoredGameResult{}
	}
	if over := len(state.GameResults) - limit; over > 0 {
		state.GameResults = state.GameResults[over:]
	}
	if state.TodayGames == nil {
		state.TodayGames = []model.TodayGame{}
	}
	if state.UnlockedAchievements == nil {
		state.UnlockedAchievements = []model.UnlockedAchievement{}
	}
	stats := &state.Stats
	if stats.DomainScores == nil {
		stats.DomainScores = map[model.Domain]int{}
	}
	if stats.DomainGamesPlayed == nil {
		stats.DomainGamesPlayed = map[model.Domain]int{}
	}
	for _, d := range model.Domains {
		v, ok := stats.DomainScores[d]
		if !ok {
			v = model.DefaultScore
		}
		stats.DomainScores[d] = clampScore(v)
		if stats.DomainGamesPlayed[d] < 0 {
			stats.DomainGamesPlayed[d] = 0
		}
	}
	if stats.LongestStreak < stats.CurrentStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	return state
}

func cloneToday(games []model.TodayGame) []model.TodayGame {
	out := make([]model.TodayGame, len(games))
	for i, g := range games {
		out[i] = g
		if g.Result != nil {
			r := *g.Result
			out[i].Result = &r
		}
	}
	return out
}

func cloneState(state model.ProgressState) model.ProgressState {
	out := model.ProgressState{
		GameResults:          append([]model.StoredGameResult{}, state.GameResults...),
		TodayGames:           cloneToday(state.TodayGames),
		UnlockedAchievements: append([]model.UnlockedAchievement{}, state.UnlockedAchievements...),
		Stats:                state.Stats.Clone(),
	}
	if state.TodayDate != nil {
		d := *state.TodayDate
		out.TodayDate = &d
	}
	return out
}
