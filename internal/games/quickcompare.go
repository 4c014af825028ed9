package games

import (
	"fmt"
	"math/rand"

	"github.com/verte-zerg/cogni/internal/session"
)

const quickCompareID = "quick-compare"

type quickCompareParams struct {
	Digits int
	// Spread bounds how far apart the two numbers may be, in units.
	Spread int
	FastMs int64
	Points int
}

var quickCompareTable = session.DifficultyTable[quickCompareParams]{
	1:  {Digits: 1, Spread: 8, FastMs: 1500, Points: 10},
	2:  {Digits: 2, Spread: 50, FastMs: 1400, Points: 12},
	3:  {Digits: 2, Spread: 20, FastMs: 1300, Points: 14},
	4:  {Digits: 2, Spread: 9, FastMs: 1200, Points: 16},
	5:  {Digits: 3, Spread: 100, FastMs: 1100, Points: 18},
	6:  {Digits: 3, Spread: 40, FastMs: 1000, Points: 20},
	7:  {Digits: 3, Spread: 10, FastMs: 900, Points: 24},
	8:  {Digits: 4, Spread: 100, FastMs: 850, Points: 28},
	9:  {Digits: 4, Spread: 30, FastMs: 800, Points: 32},
	10: {Digits: 4, Spread: 10, FastMs: 700, Points: 40},
}

type quickCompare struct {
	rnd *rand.Rand
}

func (g *quickCompare) ID() string { return quickCompareID }

func (g *quickCompare) Instructions() []string {
	return []string{
		"Two numbers appear side by side.",
		"Press 1 if the left one is larger, 2 if the right one is.",
		"Fast answers score double.",
	}
}

func (g *quickCompare) Next(difficulty int) Trial {
	p := quickCompareTable.Lookup(difficulty)
	lo, hi := 1, 9
	for i := 1; i < p.Digits; i++ {
		lo *= 10
		hi = hi*10 + 9
	}
	spread := p.Spread
	if spread > hi-lo {
		spread = hi - lo
	}
	delta := 1 + g.rnd.Intn(spread)
	left := lo + g.rnd.Intn(hi-lo+1-delta)
	right := left + delta
	if g.rnd.Intn(2) == 0 {
		left, right = right, left
	}
	answer := "1"
	if right > left {
		answer = "2"
	}
	return Trial{
		Prompt:  fmt.Sprintf("%d    %d", left, right),
		Answer:  answer,
		Choices: []string{"1", "2"},
		Points:  p.Points,
		FastMs:  p.FastMs,
	}
}
