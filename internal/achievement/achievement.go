// Package achievement defines the achievement catalog and its evaluation.
package achievement

import (
	"math"
	"time"

	"github.com/verte-zerg/cogni/internal/model"
)

// Category groups achievements for display.
type Category string

// Achievement categories.
const (
	CategoryMilestone   Category = "milestone"
	CategoryStreak      Category = "streak"
	CategoryMastery     Category = "mastery"
	CategoryDedication  Category = "dedication"
	CategoryExploration Category = "exploration"
)

// Metric names a stats value a threshold rule compares against.
type Metric int

// Metrics understood by threshold rules.
const (
	MetricNone Metric = iota
	MetricTotalGames
	MetricCurrentStreak
	MetricLongestStreak
	MetricPerfectGames
	MetricTotalCorrect
	MetricGamesToday
	MetricDomainScore
	MetricDomainGames
	MetricOverallScore
)

// Predicate is a pure check used for rules that do not fit a threshold.
type Predicate func(model.ProgressStats) bool

// Rule is either a metric threshold or a predicate.
type Rule struct {
	Metric    Metric
	Domain    model.Domain
	Threshold int
	Func      Predicate
}

// Met reports whether stats satisfy the rule.
func (r Rule) Met(stats model.ProgressStats) bool {
	if r.Func != nil {
		return r.Func(stats)
	}
	v, ok := metricValue(stats, r.Metric, r.Domain)
	if !ok {
		return false
	}
	return v >= r.Threshold
}

func metricValue(stats model.ProgressStats, m Metric, d model.Domain) (int, bool) {
	switch m {
	case MetricTotalGames:
		return stats.TotalGamesPlayed, true
	case MetricCurrentStreak:
		return stats.CurrentStreak, true
	case MetricLongestStreak:
		return stats.LongestStreak, true
	case MetricPerfectGames:
		return stats.PerfectGames, true
	case MetricTotalCorrect:
		return stats.TotalCorrectAnswers, true
	case MetricGamesToday:
		return stats.GamesPlayedToday, true
	case MetricDomainScore:
		v, ok := stats.DomainScores[d]
		return v, ok
	case MetricDomainGames:
		v, ok := stats.DomainGamesPlayed[d]
		return v, ok
	case MetricOverallScore:
		return OverallScore(stats), true
	default:
		return 0, false
	}
}

// OverallScore is the rounded mean of the five domain scores.
func OverallScore(stats model.ProgressStats) int {
	sum := 0
	for _, d := range model.Domains {
		v, ok := stats.DomainScores[d]
		if !ok {
			v = model.DefaultScore
		}
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(model.Domains))))
}

// Achievement is a static catalog entry.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	Requirement int
	Rule        Rule
}

// Catalog is the ordered list of achievements.
type Catalog []Achievement

// Lookup finds an achievement by id.
func (c Catalog) Lookup(id string) (Achievement, bool) {
	for _, a := range c {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Evaluate checks every locked achievement against stats and returns the ones
// that unlock now, stamped with the same time. Already unlocked ids are skipped.
func (c Catalog) Evaluate(stats model.ProgressStats, unlocked []model.UnlockedAchievement, now time.Time) []model.UnlockedAchievement {
	have := make(map[string]struct{}, len(unlocked))
	for _, u := range unlocked {
		have[u.AchievementID] = struct{}{}
	}
	var batch []model.UnlockedAchievement
	for _, a := range c {
		if _, ok := have[a.ID]; ok {
			continue
		}
		if !a.Rule.Met(stats) {
			continue
		}
		batch = append(batch, model.UnlockedAchievement{AchievementID: a.ID, UnlockedAt: now})
		have[a.ID] = struct{}{}
	}
	return batch
}

func threshold(m Metric, n int) Rule {
	return Rule{Metric: m, Threshold: n}
}

func domainThreshold(m Metric, d model.Domain, n int) Rule {
	return Rule{Metric: m, Domain: d, Threshold: n}
}

func allDomainsPlayed(stats model.ProgressStats) bool {
	for _, d := range model.Domains {
		if stats.DomainGamesPlayed[d] < 1 {
			return false
		}
	}
	return true
}

func allDomainsAtLeast(n int) Predicate {
	return func(stats model.ProgressStats) bool {
		for _, d := range model.Domains {
			if stats.DomainGamesPlayed[d] < 1 || stats.DomainScores[d] < n {
				return false
			}
		}
		return true
	}
}

// Default returns the built-in catalog.
func Default() Catalog {
	c := Catalog{
		{ID: "first-game", Name: "First Steps", Description: "Complete your first game", Icon: "*", Category: CategoryMilestone, Requirement: 1, Rule: threshold(MetricTotalGames, 1)},
		{ID: "games-10", Name: "Getting Started", Description: "Complete 10 games", Icon: "+", Category: CategoryMilestone, Requirement: 10, Rule: threshold(MetricTotalGames, 10)},
		{ID: "games-50", Name: "Regular", Description: "Complete 50 games", Icon: "+", Category: CategoryMilestone, Requirement: 50, Rule: threshold(MetricTotalGames, 50)},
		{ID: "games-100", Name: "Centurion", Description: "Complete 100 games", Icon: "#", Category: CategoryMilestone, Requirement: 100, Rule: threshold(MetricTotalGames, 100)},
		{ID: "games-500", Name: "Brain Athlete", Description: "Complete 500 games", Icon: "#", Category: CategoryMilestone, Requirement: 500, Rule: threshold(MetricTotalGames, 500)},

		{ID: "streak-3", Name: "On a Roll", Description: "Train 3 days in a row", Icon: "~", Category: CategoryStreak, Requirement: 3, Rule: threshold(MetricCurrentStreak, 3)},
		{ID: "streak-7", Name: "Week Warrior", Description: "Train 7 days in a row", Icon: "~", Category: CategoryStreak, Requirement: 7, Rule: threshold(MetricCurrentStreak, 7)},
		{ID: "streak-30", Name: "Monthly Master", Description: "Train 30 days in a row", Icon: "~", Category: CategoryStreak, Requirement: 30, Rule: threshold(MetricCurrentStreak, 30)},
		{ID: "streak-100", Name: "Unstoppable", Description: "Train 100 days in a row", Icon: "~", Category: CategoryStreak, Requirement: 100, Rule: threshold(MetricLongestStreak, 100)},

		{ID: "perfect-1", Name: "Flawless", Description: "Finish a game with 100% accuracy", Icon: "!", Category: CategoryMastery, Requirement: 1, Rule: threshold(MetricPerfectGames, 1)},
		{ID: "perfect-10", Name: "Perfectionist", Description: "Finish 10 games with 100% accuracy", Icon: "!", Category: CategoryMastery, Requirement: 10, Rule: threshold(MetricPerfectGames, 10)},
		{ID: "overall-75", Name: "Sharp Mind", Description: "Reach an overall score of 75", Icon: "^", Category: CategoryMastery, Requirement: 75, Rule: threshold(MetricOverallScore, 75)},
		{ID: "well-rounded", Name: "Well Rounded", Description: "Score 60 or more in every domain", Icon: "o", Category: CategoryMastery, Requirement: 60, Rule: Rule{Func: allDomainsAtLeast(60)}},

		{ID: "correct-100", Name: "Hundred Right", Description: "Answer 100 questions correctly", Icon: "=", Category: CategoryDedication, Requirement: 100, Rule: threshold(MetricTotalCorrect, 100)},
		{ID: "correct-1000", Name: "Thousand Right", Description: "Answer 1000 questions correctly", Icon: "=", Category: CategoryDedication, Requirement: 1000, Rule: threshold(MetricTotalCorrect, 1000)},
		{ID: "daily-5", Name: "Full Workout", Description: "Play 5 games in one day", Icon: "%", Category: CategoryDedication, Requirement: 5, Rule: threshold(MetricGamesToday, 5)},

		{ID: "all-domains", Name: "Explorer", Description: "Play a game in every domain", Icon: "@", Category: CategoryExploration, Requirement: len(model.Domains), Rule: Rule{Func: allDomainsPlayed}},
	}
	for _, d := range model.Domains {
		c = append(c, Achievement{
			ID:          "master-" + string(d),
			Name:        d.Label() + " Master",
			Description: "Reach a " + d.Label() + " score of 80",
			Icon:        "^",
			Category:    CategoryMastery,
			Requirement: 80,
			Rule:        domainThreshold(MetricDomainScore, d, 80),
		})
	}
	return c
}
