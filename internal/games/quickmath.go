package games

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/verte-zerg/cogni/internal/session"
)

const quickMathID = "quick-math"

type quickMathParams struct {
	MaxOperand int
	Ops        string
	Points     int
}

var quickMathTable = session.DifficultyTable[quickMathParams]{
	1:  {MaxOperand: 9, Ops: "+", Points: 10},
	2:  {MaxOperand: 9, Ops: "+-", Points: 12},
	3:  {MaxOperand: 20, Ops: "+-", Points: 14},
	4:  {MaxOperand: 9, Ops: "+-*", Points: 16},
	5:  {MaxOperand: 30, Ops: "+-*", Points: 18},
	6:  {MaxOperand: 12, Ops: "+-*/", Points: 20},
	7:  {MaxOperand: 50, Ops: "+-*/", Points: 24},
	8:  {MaxOperand: 20, Ops: "*/", Points: 28},
	9:  {MaxOperand: 99, Ops: "+-*/", Points: 32},
	10: {MaxOperand: 30, Ops: "*/", Points: 40},
}

type quickMath struct {
	rnd *rand.Rand
}

func (g *quickMath) ID() string { return quickMathID }

func (g *quickMath) Instructions() []string {
	return []string{
		"Solve each problem and press enter.",
		"Division always comes out even.",
	}
}

func (g *quickMath) Next(difficulty int) Trial {
	p := quickMathTable.Lookup(difficulty)
	op := p.Ops[g.rnd.Intn(len(p.Ops))]
	a := 1 + g.rnd.Intn(p.MaxOperand)
	b := 1 + g.rnd.Intn(p.MaxOperand)
	var result int
	switch op {
	case '+':
		result = a + b
	case '-':
		if b > a {
			a, b = b, a
		}
		result = a - b
	case '*':
		result = a * b
	case '/':
		// a is rebuilt as a multiple of b.
		result = a
		a = a * b
	}
	return Trial{
		Prompt: fmt.Sprintf("%d %c %d = ?", a, op, b),
		Answer: strconv.Itoa(result),
		Points: p.Points,
	}
}
