package games

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/cogni/internal/session"
)

const digitSpanID = "digit-span"

type digitSpanParams struct {
	Length  int
	ShowFor time.Duration
	Points  int
}

var digitSpanTable = session.DifficultyTable[digitSpanParams]{
	1:  {Length: 3, ShowFor: 2500 * time.Millisecond, Points: 10},
	2:  {Length: 4, ShowFor: 2500 * time.Millisecond, Points: 12},
	3:  {Length: 4, ShowFor: 2000 * time.Millisecond, Points: 14},
	4:  {Length: 5, ShowFor: 2000 * time.Millisecond, Points: 16},
	5:  {Length: 5, ShowFor: 1500 * time.Millisecond, Points: 18},
	6:  {Length: 6, ShowFor: 1500 * time.Millisecond, Points: 20},
	7:  {Length: 7, ShowFor: 1500 * time.Millisecond, Points: 24},
	8:  {Length: 7, ShowFor: 1200 * time.Millisecond, Points: 28},
	9:  {Length: 8, ShowFor: 1200 * time.Millisecond, Points: 32},
	10: {Length: 9, ShowFor: 1000 * time.Millisecond, Points: 40},
}

type digitSpan struct {
	rnd *rand.Rand
}

func (g *digitSpan) ID() string { return digitSpanID }

func (g *digitSpan) Instructions() []string {
	return []string{
		"A sequence of digits flashes on screen.",
		"Type it back once it disappears, then press enter.",
	}
}

func (g *digitSpan) Next(difficulty int) Trial {
	p := digitSpanTable.Lookup(difficulty)
	digits := make([]string, p.Length)
	for i := range digits {
		digits[i] = string(rune('0' + g.rnd.Intn(10)))
	}
	return Trial{
		Show:    strings.Join(digits, " "),
		ShowFor: p.ShowFor,
		Prompt:  "Type the digits",
		Answer:  strings.Join(digits, ""),
		Points:  p.Points,
	}
}
