package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/minesweeper-api/internal/mines"
)

type memoryRecord struct {
	state     []byte
	version   int
	createdAt time.Time
	updatedAt time.Time
}

// Memory keeps encoded games in a map. It is meant for tests and single
// process development setups.
type Memory struct {
	mu    sync.Mutex
	games map[uuid.UUID]memoryRecord
}

func NewMemory() *Memory {
	return &Memory{games: make(map[uuid.UUID]memoryRecord)}
}

func (m *Memory) CreateGame(
	ctx context.Context, state *mines.GameState,
) (*GameSession, error) {
	b, err := stored(state).Bytes()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[state.ID]; ok {
		return nil, ErrDuplicate
	}
	now := time.Now().UTC()
	rec := memoryRecord{state: b, createdAt: now, updatedAt: now}
	m.games[state.ID] = rec
	return rec.session()
}

func (m *Memory) FetchGame(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	m.mu.Lock()
	rec, ok := m.games[id]
	m.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return rec.session()
}

func (m *Memory) UpdateGame(
	ctx context.Context, session *GameSession,
) (*GameSession, error) {
	b, err := stored(session.State).Bytes()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.games[session.State.ID]
	if !ok || rec.version != session.Version {
		return nil, ErrConflict
	}
	rec.state = b
	rec.version++
	rec.updatedAt = time.Now().UTC()
	m.games[session.State.ID] = rec
	return rec.session()
}

func (m *Memory) Close() error {
	return nil
}

func (r memoryRecord) session() (*GameSession, error) {
	state, err := mines.DecodeGameState(r.state)
	if err != nil {
		return nil, err
	}
	session := &GameSession{
		State:     state,
		Version:   r.version,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
	return session, nil
}
