// Package model defines shared data structures.
package model

import "time"

// Domain is one of the five cognitive domains a game trains.
type Domain string

// Cognitive domains.
const (
	DomainMemory         Domain = "memory"
	DomainAttention      Domain = "attention"
	DomainSpeed          Domain = "speed"
	DomainProblemSolving Domain = "problem_solving"
	DomainFlexibility    Domain = "flexibility"
)

// Domains lists every domain in display order.
var Domains = []Domain{
	DomainMemory,
	DomainAttention,
	DomainSpeed,
	DomainProblemSolving,
	DomainFlexibility,
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// Label returns a human readable domain name.
func (d Domain) Label() string {
	switch d {
	case DomainMemory:
		return "Memory"
	case DomainAttention:
		return "Attention"
	case DomainSpeed:
		return "Speed"
	case DomainProblemSolving:
		return "Problem Solving"
	case DomainFlexibility:
		return "Flexibility"
	default:
		return string(d)
	}
}

// DateLayout is the calendar-day format used for streak and plan dates.
const DateLayout = "2006-01-02"

// Score bounds and the neutral starting point for every domain.
const (
	MinScore     = 0
	MaxScore     = 100
	DefaultScore = 50
)

// StoredGameResult captures one completed game session. Never mutated after creation.
type StoredGameResult struct {
	ID             string    `json:"id"`
	GameID         string    `json:"gameId"`
	GameName       string    `json:"gameName"`
	Domain         Domain    `json:"domain"`
	Score          int       `json:"score"`
	Accuracy       int       `json:"accuracy"`
	Difficulty     int       `json:"difficulty"`
	CompletedAt    time.Time `json:"completedAt"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalRounds    int       `json:"totalRounds"`
}

// ProgressStats is the rolled-up aggregate over every recorded result.
type ProgressStats struct {
	TotalGamesPlayed    int            `json:"totalGamesPlayed"`
	GamesPlayedToday    int            `json:"gamesPlayedToday"`
	CurrentStreak       int            `json:"currentStreak"`
	LongestStreak       int            `json:"longestStreak"`
	LastPlayedDate      string         `json:"lastPlayedDate,omitempty"`
	DomainScores        map[Domain]int `json:"domainScores"`
	DomainGamesPlayed   map[Domain]int `json:"domainGamesPlayed"`
	PerfectGames        int            `json:"perfectGames"`
	TotalCorrectAnswers int            `json:"totalCorrectAnswers"`
}

// DefaultStats returns stats for a user who has never played.
func DefaultStats() ProgressStats {
	stats := ProgressStats{
		DomainScores:      make(map[Domain]int, len(Domains)),
		DomainGamesPlayed: make(map[Domain]int, len(Domains)),
	}
	for _, d := range Domains {
		stats.DomainScores[d] = DefaultScore
		stats.DomainGamesPlayed[d] = 0
	}
	return stats
}

// ActiveStreak returns CurrentStreak while it can still be extended, that is
// when the last game was played on now's day or the day before, and 0 otherwise.
func (s ProgressStats) ActiveStreak(now time.Time) int {
	switch s.LastPlayedDate {
	case now.Format(DateLayout), now.AddDate(0, 0, -1).Format(DateLayout):
		return s.CurrentStreak
	}
	return 0
}

// PlayedToday returns GamesPlayedToday when the last game was played on now's day.
func (s ProgressStats) PlayedToday(now time.Time) int {
	if s.LastPlayedDate != now.Format(DateLayout) {
		return 0
	}
	return s.GamesPlayedToday
}

// Clone returns a deep copy of the stats.
func (s ProgressStats) Clone() ProgressStats {
	out := s
	out.DomainScores = make(map[Domain]int, len(s.DomainScores))
	for k, v := range s.DomainScores {
		out.DomainScores[k] = v
	}
	out.DomainGamesPlayed = make(map[Domain]int, len(s.DomainGamesPlayed))
	for k, v := range s.DomainGamesPlayed {
		out.DomainGamesPlayed[k] = v
	}
	return out
}

// TodayGame is one entry of the daily plan.
type TodayGame struct {
	GameID     string            `json:"gameId"`
	Domain     Domain            `json:"domain"`
	Difficulty int               `json:"difficulty"`
	Completed  bool              `json:"completed"`
	Result     *StoredGameResult `json:"result,omitempty"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// ProgressState is the single persisted document.
type ProgressState struct {
	GameResults          []StoredGameResult    `json:"gameResults"`
	TodayGames           []TodayGame           `json:"todayGames"`
	TodayDate            *string               `json:"todayDate"`
	UnlockedAchievements []UnlockedAchievement `json:"unlockedAchievements"`
	Stats                ProgressStats         `json:"stats"`
}

// DefaultState returns the first-run document.
func DefaultState() ProgressState {
	return ProgressState{
		GameResults:          []StoredGameResult{},
		TodayGames:           []TodayGame{},
		UnlockedAchievements: []UnlockedAchievement{},
		Stats:                DefaultStats(),
	}
}

// ResultPayload is the body submitted to the remote results service.
type ResultPayload struct {
	UserID         string    `json:"userId,omitempty"`
	GameID         string    `json:"gameId"`
	GameName       string    `json:"gameName"`
	Domain         Domain    `json:"domain"`
	Score          int       `json:"score"`
	Accuracy       int       `json:"accuracy"`
	Difficulty     int       `json:"difficulty"`
	CompletedAt    time.Time `json:"completedAt"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalRounds    int       `json:"totalRounds"`
}

// PayloadFor builds the outbound payload for a stored result.
func PayloadFor(userID string, r StoredGameResult) ResultPayload {
	return ResultPayload{
		UserID:         userID,
		GameID:         r.GameID,
		GameName:       r.GameName,
		Domain:         r.Domain,
		Score:          r.Score,
		Accuracy:       r.Accuracy,
		Difficulty:     r.Difficulty,
		CompletedAt:    r.CompletedAt,
		CorrectAnswers: r.CorrectAnswers,
		TotalRounds:    r.TotalRounds,
	}
}

// PlayConfig defines settings for a single play session.
type PlayConfig struct {
	GameID       string
	Rounds       int
	Difficulty   int
	Countdown    int
	Practice     bool
	PlayableOnly bool
}

// SyncConfig defines the remote results sink.
type SyncConfig struct {
	UserID       string
	Endpoint     string
	KafkaBrokers []string
	KafkaTopic   string
	Timeout      time.Duration
}

// ReportConfig defines filters and options for stats output.
type ReportConfig struct {
	Domain      Domain
	Since       *time.Time
	Last        int
	CurveWindow int
}

// DomainAggregate summarizes archived results for one domain.
type DomainAggregate struct {
	Domain       Domain
	Games        int
	AccuracySum  int
	BestScore    int
	TotalCorrect int
	LastPlayedAt time.Time
}

// AvgAccuracy returns the mean accuracy, or 0 without games.
func (a DomainAggregate) AvgAccuracy() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.AccuracySum) / float64(a.Games)
}
