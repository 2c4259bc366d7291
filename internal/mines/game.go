package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Phase int

const (
	Created   Phase = iota // no cell opened yet, no mines laid
	Active                 // mines laid, game in progress
	Completed              // won or lost; terminal
)

func (p Phase) String() string {
	switch p {
	case Created:
		return "created"
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type GameState struct {
	ID uuid.UUID
	GameParams
	Field     Field     /* player knowledge */
	Solution  *Solution /* nil until the first reveal */
	OpenCount int
	Completed bool
}

// NewGame validates p and returns a game with every cell hidden. Mines are
// laid on the first turn.
func NewGame(p GameParams) (*GameState, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	state := &GameState{
		ID:         uuid.New(),
		GameParams: p,
		Field:      NewField(p),
	}
	return state, nil
}

func ParseGameID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a UUID", ErrInvalidGameIdFormat, s)
	}
	return id, nil
}

func (s *GameState) Phase() Phase {
	switch {
	case s.Completed:
		return Completed
	case s.Solution == nil:
		return Created
	default:
		return Active
	}
}

// Won reports whether the game ended with every safe cell open.
func (s *GameState) Won() bool {
	return s.Completed && s.OpenCount == s.SafeCells()
}

// TakeTurn opens the cell at pt. The first turn of a game lays the mines,
// never under pt. Checks run in order: row, col, already open, completed; on
// any failure the state is left untouched.
//
// The returned count is the number of cells opened by this turn.
func (s *GameState) TakeTurn(pt Point, rnd *rand.Rand) (opened int, err error) {
	if pt.Row < 0 || pt.Row >= s.Width {
		return 0, fmt.Errorf(
			"%w: row must be non-negative and less than width %d",
			ErrInvalidRow, s.Width,
		)
	}
	if pt.Col < 0 || pt.Col >= s.Height {
		return 0, fmt.Errorf(
			"%w: col must be non-negative and less than height %d",
			ErrInvalidCol, s.Height,
		)
	}
	i := s.index(pt)
	if s.Field[i].State != Hidden {
		return 0, fmt.Errorf("%w: %s", ErrCellAlreadyOpen, pt)
	}
	if s.Completed {
		return 0, ErrGameCompleted
	}

	if s.Solution == nil {
		s.Solution = Generate(s.GameParams, pt, rnd)
	}

	if s.Solution.IsMine(i) {
		s.markMines(Mine)
		s.Completed = true
		return 0, nil
	}

	opened = Reveal(s.GameParams, s.Solution, s.Field, pt)
	s.OpenCount += opened

	if s.OpenCount == s.SafeCells() {
		s.markMines(SafeMine)
		s.Completed = true
	}
	return opened, nil
}

func (s *GameState) markMines(state CellState) {
	for i := range s.Solution.Cells {
		if s.Solution.IsMine(i) {
			s.Field[i] = Cell{State: state}
		}
	}
}

// Verify checks the invariants tying the field, the solution and the counters
// together. A failure means the state was corrupted, not that the player did
// something wrong.
func (s *GameState) Verify() error {
	if err := s.GameParams.Validate(); err != nil {
		return AssertionError{"stored params: " + err.Error()}
	}
	if len(s.Field) != s.Cells() {
		return AssertionError{fmt.Sprintf(
			"field has %d cells, want %d", len(s.Field), s.Cells(),
		)}
	}
	if opened := s.Field.Opened(); opened != s.OpenCount {
		return AssertionError{fmt.Sprintf(
			"open count is %d, field has %d open cells", s.OpenCount, opened,
		)}
	}
	if s.OpenCount > s.SafeCells() {
		return AssertionError{fmt.Sprintf(
			"open count %d exceeds safe cells %d", s.OpenCount, s.SafeCells(),
		)}
	}
	if !s.Completed && s.OpenCount == s.SafeCells() {
		return AssertionError{"every safe cell is open but game is not completed"}
	}
	if s.Solution == nil {
		if !s.Completed && s.OpenCount > 0 {
			return AssertionError{"cells are open but there is no solution"}
		}
		return nil
	}
	if len(s.Solution.Cells) != s.Cells() {
		return AssertionError{fmt.Sprintf(
			"solution has %d cells, want %d", len(s.Solution.Cells), s.Cells(),
		)}
	}
	if mines := s.Solution.Mines(); mines != s.MineCount {
		return AssertionError{fmt.Sprintf(
			"solution has %d mines, want %d", mines, s.MineCount,
		)}
	}
	for i, c := range s.Field {
		if c.State == Open && (s.Solution.IsMine(i) || int8(c.Count) != s.Solution.Cells[i]) {
			return AssertionError{"field disagrees with solution at " + s.point(i).String()}
		}
	}
	return nil
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var game GameState
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
