package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/minesweeper-api/internal/mines"
)

var (
	ErrNotFound  = errors.New("game session not found")
	ErrConflict  = errors.New("game session was modified concurrently")
	ErrDuplicate = errors.New("game session id already taken")
)

// GameSession is a stored game together with the revision it was read at.
type GameSession struct {
	State     *mines.GameState
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists games keyed by their id. UpdateGame must only write if
// the stored revision still equals session.Version, and returns [ErrConflict]
// otherwise.
type Repository interface {
	CreateGame(ctx context.Context, state *mines.GameState) (*GameSession, error)
	FetchGame(ctx context.Context, id uuid.UUID) (*GameSession, error)
	UpdateGame(ctx context.Context, session *GameSession) (*GameSession, error)
	Close() error
}

// stored returns the copy of state that is written to a backend: once the
// game is completed the solution is dropped so it can never leak.
func stored(state *mines.GameState) *mines.GameState {
	s := *state
	s.Field = append(mines.Field(nil), state.Field...)
	if s.Completed || s.Solution == nil {
		s.Solution = nil
	} else {
		s.Solution = &mines.Solution{Cells: append([]int8(nil), state.Solution.Cells...)}
	}
	return &s
}
