package mines

import (
	"fmt"
	"math/rand/v2"
)

// Generate lays out p.MineCount mines uniformly at random over every cell
// except exclude, and fills in adjacency counts for the rest.
//
// panics [AssertionError] if exclude is off the board or p is invalid
func Generate(p GameParams, exclude Point, rnd *rand.Rand) *Solution {
	if err := p.Validate(); err != nil {
		panic(AssertionError{err.Error()})
	}
	if !p.Contains(exclude) {
		panic(AssertionError{"excluded cell " + exclude.String() + " is off the board"})
	}

	skip := p.index(exclude)
	free := make([]int, 0, p.Cells()-1)
	for i := range p.Cells() {
		if i != skip {
			free = append(free, i)
		}
	}

	mines := make([]int, 0, p.MineCount)
	for range p.MineCount {
		j := rnd.IntN(len(free))
		mines = append(mines, free[j])
		last := len(free) - 1
		free[j] = free[last]
		free = free[:last]
	}

	Log.WithField("params", p).WithField("exclude", exclude).Debug("generated mine layout")
	return p.layMines(mines)
}

// NewSolution builds a solution from a fixed set of mine positions.
func NewSolution(p GameParams, mines []Point) (*Solution, error) {
	if len(mines) != p.MineCount {
		return nil, fmt.Errorf("got %d mines, want %d", len(mines), p.MineCount)
	}
	seen := make(map[int]bool, len(mines))
	idx := make([]int, 0, len(mines))
	for _, m := range mines {
		if !p.Contains(m) {
			return nil, fmt.Errorf("mine %s is off the board", m)
		}
		i := p.index(m)
		if seen[i] {
			return nil, fmt.Errorf("duplicate mine %s", m)
		}
		seen[i] = true
		idx = append(idx, i)
	}
	return p.layMines(idx), nil
}

func (p GameParams) layMines(mines []int) *Solution {
	cells := make([]int8, p.Cells())
	for _, i := range mines {
		cells[i] = MineValue
	}
	for i := range cells {
		if cells[i] == MineValue {
			continue
		}
		var n int8
		for q := range p.Neighbors(p.point(i)) {
			if cells[p.index(q)] == MineValue {
				n++
			}
		}
		cells[i] = n
	}
	return &Solution{Cells: cells}
}
