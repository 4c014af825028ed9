// Package games implements the terminal game bodies driven by the session engine.
package games

import (
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Trial is one round of a game.
type Trial struct {
	// Show is displayed for ShowFor before Prompt replaces it. Empty means no
	// memorize phase.
	Show    string
	ShowFor time.Duration
	Prompt  string
	Answer  string
	// Choices lists accepted inputs for single-key games; nil means free text.
	Choices []string
	Points  int
	// FastMs doubles Points when the response arrives faster. Zero disables it.
	FastMs int64
}

// Check reports whether input matches the expected answer. Case and
// surrounding or inner whitespace are ignored.
func (t Trial) Check(input string) bool {
	return normalize(input) == normalize(t.Answer)
}

// Award returns the points for a response.
func (t Trial) Award(correct bool, reactionMs int64) int {
	if !correct {
		return 0
	}
	if t.FastMs > 0 && reactionMs > 0 && reactionMs < t.FastMs {
		return t.Points * 2
	}
	return t.Points
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// Game generates trials for one catalog entry.
type Game interface {
	ID() string
	Instructions() []string
	Next(difficulty int) Trial
}

type factory func(rnd *rand.Rand) Game

var registry = map[string]factory{
	digitSpanID:    func(rnd *rand.Rand) Game { return &digitSpan{rnd: rnd} },
	oddOneOutID:    func(rnd *rand.Rand) Game { return &oddOneOut{rnd: rnd} },
	quickCompareID: func(rnd *rand.Rand) Game { return &quickCompare{rnd: rnd} },
	quickMathID:    func(rnd *rand.Rand) Game { return &quickMath{rnd: rnd} },
	ruleSwitchID:   func(rnd *rand.Rand) Game { return &ruleSwitch{rnd: rnd} },
}

// New returns the game registered under id, seeded with the current time.
func New(id string) (Game, bool) {
	return NewWithRand(id, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns the game registered under id using rnd.
func NewWithRand(id string, rnd *rand.Rand) (Game, bool) {
	f, ok := registry[id]
	if !ok {
		return nil, false
	}
	return f(rnd), true
}

// IDs lists registered game ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
