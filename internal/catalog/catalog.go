// Package catalog lists every registered mini-game.
package catalog

import (
	"sort"

	"github.com/verte-zerg/cogni/internal/model"
)

// Game is a catalog entry.
type Game struct {
	ID     string
	Name   string
	Domain model.Domain
	// Terminal marks games that have a terminal version in this build.
	Terminal bool
}

// Catalog is an ordered, read-only game registry.
type Catalog struct {
	games []Game
	byID  map[string]Game
}

// New builds a catalog from games. Later duplicates of an id are dropped.
func New(games []Game) *Catalog {
	c := &Catalog{byID: make(map[string]Game, len(games))}
	for _, g := range games {
		if _, ok := c.byID[g.ID]; ok {
			continue
		}
		c.byID[g.ID] = g
		c.games = append(c.games, g)
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(builtin)
}

// Games returns every game in registration order.
func (c *Catalog) Games() []Game {
	out := make([]Game, len(c.games))
	copy(out, c.games)
	return out
}

// Lookup finds a game by id.
func (c *Catalog) Lookup(id string) (Game, bool) {
	g, ok := c.byID[id]
	return g, ok
}

// ByDomain returns the games in a domain, sorted by id.
func (c *Catalog) ByDomain(d model.Domain) []Game {
	var out []Game
	for _, g := range c.games {
		if g.Domain == d {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TerminalOnly returns a catalog restricted to games with a terminal version.
func (c *Catalog) TerminalOnly() *Catalog {
	var games []Game
	for _, g := range c.games {
		if g.Terminal {
			games = append(games, g)
		}
	}
	return New(games)
}

var builtin = []Game{
	{ID: "digit-span", Name: "Digit Span", Domain: model.DomainMemory, Terminal: true},
	{ID: "memory-matrix", Name: "Memory Matrix", Domain: model.DomainMemory},
	{ID: "card-pairs", Name: "Card Pairs", Domain: model.DomainMemory},
	{ID: "sequence-recall", Name: "Sequence Recall", Domain: model.DomainMemory},
	{ID: "n-back", Name: "N-Back", Domain: model.DomainMemory},
	{ID: "word-recall", Name: "Word Recall", Domain: model.DomainMemory},

	{ID: "odd-one-out", Name: "Odd One Out", Domain: model.DomainAttention, Terminal: true},
	{ID: "visual-search", Name: "Visual Search", Domain: model.DomainAttention},
	{ID: "go-no-go", Name: "Go / No-Go", Domain: model.DomainAttention},
	{ID: "flanker", Name: "Flanker", Domain: model.DomainAttention},
	{ID: "target-tracker", Name: "Target Tracker", Domain: model.DomainAttention},
	{ID: "spot-the-change", Name: "Spot the Change", Domain: model.DomainAttention},

	{ID: "quick-compare", Name: "Quick Compare", Domain: model.DomainSpeed, Terminal: true},
	{ID: "reaction-time", Name: "Reaction Time", Domain: model.DomainSpeed},
	{ID: "speed-match", Name: "Speed Match", Domain: model.DomainSpeed},
	{ID: "symbol-sprint", Name: "Symbol Sprint", Domain: model.DomainSpeed},
	{ID: "color-tap", Name: "Color Tap", Domain: model.DomainSpeed},
	{ID: "number-hunt", Name: "Number Hunt", Domain: model.DomainSpeed},

	{ID: "quick-math", Name: "Quick Math", Domain: model.DomainProblemSolving, Terminal: true},
	{ID: "pattern-logic", Name: "Pattern Logic", Domain: model.DomainProblemSolving},
	{ID: "tower-puzzle", Name: "Tower Puzzle", Domain: model.DomainProblemSolving},
	{ID: "number-series", Name: "Number Series", Domain: model.DomainProblemSolving},
	{ID: "path-finder", Name: "Path Finder", Domain: model.DomainProblemSolving},
	{ID: "balance-scale", Name: "Balance Scale", Domain: model.DomainProblemSolving},

	{ID: "rule-switch", Name: "Rule Switch", Domain: model.DomainFlexibility, Terminal: true},
	{ID: "color-word", Name: "Color Word", Domain: model.DomainFlexibility},
	{ID: "task-switch", Name: "Task Switch", Domain: model.DomainFlexibility},
	{ID: "shape-shift", Name: "Shape Shift", Domain: model.DomainFlexibility},
	{ID: "category-sort", Name: "Category Sort", Domain: model.DomainFlexibility},
	{ID: "reverse-arrows", Name: "Reverse Arrows", Domain: model.DomainFlexibility},
}
