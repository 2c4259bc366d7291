package mines

// Reveal opens start and cascades through every zero-count cell reachable
// from it, opening each zero cell's neighbours as well. It returns the number
// of cells that went from [Hidden] to [Open].
//
// start must be hidden and must not be a mine.
//
// panics [AssertionError]
func Reveal(p GameParams, sol *Solution, field Field, start Point) int {
	if !p.Contains(start) {
		panic(AssertionError{"reveal started off the board at " + start.String()})
	}

	var todo worklist
	todo.push(p.index(start))

	opened := 0
	for {
		i, ok := todo.pop()
		if !ok {
			break
		}
		if field[i].State != Hidden {
			continue
		}
		if sol.IsMine(i) {
			panic(AssertionError{"reveal reached a mine at " + p.point(i).String()})
		}

		n := sol.Cells[i]
		field[i] = Cell{State: Open, Count: uint8(n)}
		opened++

		if n == 0 {
			for q := range p.Neighbors(p.point(i)) {
				todo.push(p.index(q))
			}
		}
	}
	return opened
}
