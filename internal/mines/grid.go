package mines

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

const (
	MinSide = 2
	MaxSide = 30
)

// Point addresses a cell. Row runs along the board width and Col along its
// height: the field is Width rows of Height cells each.
type Point struct {
	Row, Col int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

type GameParams struct {
	Width, Height, MineCount int
}

// NewGameParams returns validated game parameters.
func NewGameParams(width, height, mineCount int) (GameParams, error) {
	p := GameParams{Width: width, Height: height, MineCount: mineCount}
	return p, p.Validate()
}

func (p GameParams) Validate() error {
	if p.Width < MinSide || p.Width > MaxSide {
		return fmt.Errorf(
			"%w: width must be at least %d and at most %d",
			ErrInvalidWidth, MinSide, MaxSide,
		)
	}
	if p.Height < MinSide || p.Height > MaxSide {
		return fmt.Errorf(
			"%w: height must be at least %d and at most %d",
			ErrInvalidHeight, MinSide, MaxSide,
		)
	}
	if p.MineCount < 1 || p.MineCount > p.MaxMineCount() {
		return fmt.Errorf(
			"%w: mine count must be at least 1 and at most %d",
			ErrInvalidMineCount, p.MaxMineCount(),
		)
	}
	return nil
}

func (p GameParams) Cells() int {
	return p.Width * p.Height
}

func (p GameParams) MaxMineCount() int {
	return p.Cells() - 1
}

// SafeCells is the number of cells that must be opened to win.
func (p GameParams) SafeCells() int {
	return p.Cells() - p.MineCount
}

func (p GameParams) Contains(pt Point) bool {
	return 0 <= pt.Row && pt.Row < p.Width && 0 <= pt.Col && pt.Col < p.Height
}

func (p GameParams) index(pt Point) int {
	return pt.Row*p.Height + pt.Col
}

func (p GameParams) point(i int) Point {
	return Point{Row: i / p.Height, Col: i % p.Height}
}

// Neighbors yields the in-bounds cells among the eight surrounding pt.
func (p GameParams) Neighbors(pt Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				q := Point{Row: pt.Row + dr, Col: pt.Col + dc}
				if !p.Contains(q) {
					continue
				}
				if !yield(q) {
					return
				}
			}
		}
	}
}

type CellState uint8

const (
	Hidden   CellState = iota
	Open               // revealed, Cell.Count holds the adjacency count
	Mine               // mine shown after a loss
	SafeMine           // mine shown after a win
)

type Cell struct {
	State CellState
	Count uint8
}

// Token is the single-character representation used on the wire and in
// storage.
func (c Cell) Token() byte {
	switch c.State {
	case Open:
		return '0' + c.Count
	case Mine:
		return 'X'
	case SafeMine:
		return 'M'
	default:
		return ' '
	}
}

func (c Cell) String() string {
	return string(c.Token())
}

func ParseCell(token byte) (Cell, error) {
	switch {
	case token == ' ':
		return Cell{State: Hidden}, nil
	case token == 'X':
		return Cell{State: Mine}, nil
	case token == 'M':
		return Cell{State: SafeMine}, nil
	case '0' <= token && token <= '8':
		return Cell{State: Open, Count: token - '0'}, nil
	}
	return Cell{}, fmt.Errorf("invalid cell token %q", token)
}

// Field is what the player sees, stored row-major.
type Field []Cell

func NewField(p GameParams) Field {
	return make(Field, p.Cells())
}

// ParseField decodes a string produced by [Field.Tokens].
func ParseField(p GameParams, tokens string) (Field, error) {
	if len(tokens) != p.Cells() {
		return nil, fmt.Errorf(
			"field has %d cells, want %d", len(tokens), p.Cells(),
		)
	}
	f := make(Field, len(tokens))
	for i := range len(tokens) {
		c, err := ParseCell(tokens[i])
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		f[i] = c
	}
	return f, nil
}

func (f Field) Tokens() string {
	b := make([]byte, len(f))
	for i, c := range f {
		b[i] = c.Token()
	}
	return string(b)
}

// Rows splits the field into Width rows of single-character tokens.
func (f Field) Rows(p GameParams) [][]string {
	rows := make([][]string, p.Width)
	for r := range p.Width {
		row := make([]string, p.Height)
		for c := range p.Height {
			row[c] = f[p.index(Point{r, c})].String()
		}
		rows[r] = row
	}
	return rows
}

// Opened counts cells in the [Open] state.
func (f Field) Opened() int {
	n := 0
	for _, c := range f {
		if c.State == Open {
			n++
		}
	}
	return n
}

func (f Field) ToString(p GameParams) string {
	var b strings.Builder
	for r := range p.Width {
		for c := range p.Height {
			cell := f[p.index(Point{r, c})]
			if cell.State == Hidden {
				b.WriteString(".")
			} else {
				b.WriteString(cell.String())
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

const MineValue int8 = -1

// Solution is the hidden layout: [MineValue] for mines, otherwise the number
// of neighbouring mines. Cells are row-major like [Field].
type Solution struct {
	Cells []int8
}

func (s *Solution) IsMine(i int) bool {
	return s.Cells[i] == MineValue
}

func (s *Solution) Mines() int {
	n := 0
	for _, v := range s.Cells {
		if v == MineValue {
			n++
		}
	}
	return n
}

func (s *Solution) Bytes() []byte {
	b := make([]byte, len(s.Cells))
	for i, v := range s.Cells {
		b[i] = byte(v)
	}
	return b
}

func SolutionFromBytes(b []byte) *Solution {
	cells := make([]int8, len(b))
	for i, v := range b {
		cells[i] = int8(v)
	}
	return &Solution{Cells: cells}
}

func (s *Solution) ToString(p GameParams) string {
	var b strings.Builder
	for r := range p.Width {
		for c := range p.Height {
			v := s.Cells[p.index(Point{r, c})]
			if v == MineValue {
				b.WriteString("*")
			} else {
				b.WriteString(strconv.Itoa(int(v)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
