package games

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/verte-zerg/cogni/internal/session"
)

const oddOneOutID = "odd-one-out"

type oddOneOutParams struct {
	Items int
	// Pairs are (common, odd) symbol pairs; later pairs look more alike.
	Pairs  [][2]string
	Points int
}

var (
	easyPairs = [][2]string{{"O", "X"}, {"+", "#"}, {"A", "V"}}
	midPairs  = [][2]string{{"E", "F"}, {"M", "N"}, {"6", "9"}}
	hardPairs = [][2]string{{"O", "Q"}, {"b", "d"}, {"8", "B"}, {"l", "I"}}
)

var oddOneOutTable = session.DifficultyTable[oddOneOutParams]{
	1:  {Items: 4, Pairs: easyPairs, Points: 10},
	2:  {Items: 5, Pairs: easyPairs, Points: 12},
	3:  {Items: 5, Pairs: midPairs, Points: 14},
	4:  {Items: 6, Pairs: midPairs, Points: 16},
	5:  {Items: 7, Pairs: midPairs, Points: 18},
	6:  {Items: 7, Pairs: hardPairs, Points: 20},
	7:  {Items: 8, Pairs: hardPairs, Points: 24},
	8:  {Items: 8, Pairs: hardPairs, Points: 28},
	9:  {Items: 9, Pairs: hardPairs, Points: 32},
	10: {Items: 9, Pairs: hardPairs, Points: 40},
}

type oddOneOut struct {
	rnd *rand.Rand
}

func (g *oddOneOut) ID() string { return oddOneOutID }

func (g *oddOneOut) Instructions() []string {
	return []string{
		"One symbol in the row differs from the rest.",
		"Press its position number.",
	}
}

func (g *oddOneOut) Next(difficulty int) Trial {
	p := oddOneOutTable.Lookup(difficulty)
	pair := p.Pairs[g.rnd.Intn(len(p.Pairs))]
	odd := g.rnd.Intn(p.Items)
	cells := make([]string, p.Items)
	labels := make([]string, p.Items)
	choices := make([]string, p.Items)
	for i := range cells {
		cells[i] = pair[0]
		if i == odd {
			cells[i] = pair[1]
		}
		labels[i] = strconv.Itoa(i + 1)
		choices[i] = labels[i]
	}
	return Trial{
		Prompt:  strings.Join(cells, " ") + "\n" + strings.Join(labels, " "),
		Answer:  strconv.Itoa(odd + 1),
		Choices: choices,
		Points:  p.Points,
		FastMs:  1500,
	}
}
