package games

import (
	"math/rand"
	"strconv"

	"github.com/verte-zerg/cogni/internal/session"
)

const ruleSwitchID = "rule-switch"

type rule int

const (
	ruleParity rule = iota
	ruleSize
)

type ruleSwitchParams struct {
	SwitchChance float64
	FastMs       int64
	Points       int
}

var ruleSwitchTable = session.DifficultyTable[ruleSwitchParams]{
	1:  {SwitchChance: 0.10, FastMs: 2000, Points: 10},
	2:  {SwitchChance: 0.15, FastMs: 1900, Points: 12},
	3:  {SwitchChance: 0.20, FastMs: 1800, Points: 14},
	4:  {SwitchChance: 0.25, FastMs: 1700, Points: 16},
	5:  {SwitchChance: 0.30, FastMs: 1600, Points: 18},
	6:  {SwitchChance: 0.35, FastMs: 1500, Points: 20},
	7:  {SwitchChance: 0.40, FastMs: 1400, Points: 24},
	8:  {SwitchChance: 0.45, FastMs: 1300, Points: 28},
	9:  {SwitchChance: 0.50, FastMs: 1200, Points: 32},
	10: {SwitchChance: 0.50, FastMs: 1000, Points: 40},
}

type ruleSwitch struct {
	rnd     *rand.Rand
	current rule
	started bool
}

func (g *ruleSwitch) ID() string { return ruleSwitchID }

func (g *ruleSwitch) Instructions() []string {
	return []string{
		"Each digit comes with a rule.",
		"PARITY: press e for even, o for odd.",
		"SIZE: press h if above 5, l if below 5.",
		"The rule changes without warning.",
	}
}

func (g *ruleSwitch) Next(difficulty int) Trial {
	p := ruleSwitchTable.Lookup(difficulty)
	if !g.started {
		g.current = rule(g.rnd.Intn(2))
		g.started = true
	} else if g.rnd.Float64() < p.SwitchChance {
		g.current = 1 - g.current
	}
	n := 1 + g.rnd.Intn(8)
	if n >= 5 {
		n++
	}
	var prompt, answer string
	var choices []string
	switch g.current {
	case ruleParity:
		prompt = "PARITY  " + strconv.Itoa(n)
		choices = []string{"e", "o"}
		answer = "o"
		if n%2 == 0 {
			answer = "e"
		}
	default:
		prompt = "SIZE    " + strconv.Itoa(n)
		choices = []string{"h", "l"}
		answer = "l"
		if n > 5 {
			answer = "h"
		}
	}
	return Trial{
		Prompt:  prompt,
		Answer:  answer,
		Choices: choices,
		Points:  p.Points,
		FastMs:  p.FastMs,
	}
}
