package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

// SQLite stores gob-encoded games in a single key-value table.
type SQLite struct {
	db   *sql.DB
	name string
}

var ErrBadName = fmt.Errorf("bad name for store")

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return true
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	// sqlite allows a single writer; serialize in the pool instead of
	// surfacing SQLITE_BUSY
	db.SetMaxOpenConns(1)
	s, err := NewSQLite(ctx, db, "game_session")
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite creates the table if missing. name may only contain Latin
// letters and underscores.
func NewSQLite(ctx context.Context, db *sql.DB, name string) (*SQLite, error) {
	if !isLetters(name) {
		return nil, ErrBadName
	}

	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+name+` (
	key			TEXT PRIMARY KEY,
	version		INTEGER NOT NULL DEFAULT 0,
	value		BLOB NOT NULL,
	created_at	TIMESTAMP NOT NULL,
	updated_at	TIMESTAMP NOT NULL
);`)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db, name: name}, nil
}

func (s *SQLite) CreateGame(
	ctx context.Context, state *mines.GameState,
) (*GameSession, error) {
	b, err := stored(state).Bytes()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO `+s.name+` (key, version, value, created_at, updated_at)
VALUES (?, 0, ?, ?, ?);`,
		state.ID.String(), b, now, now)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return s.FetchGame(ctx, state.ID)
}

func (s *SQLite) FetchGame(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	var (
		value   []byte
		session GameSession
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, value, created_at, updated_at FROM `+s.name+` WHERE key = ?;`,
		id.String(),
	).Scan(&session.Version, &value, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	session.State, err = mines.DecodeGameState(value)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLite) UpdateGame(
	ctx context.Context, session *GameSession,
) (*GameSession, error) {
	b, err := stored(session.State).Bytes()
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE `+s.name+`
SET value = ?, version = version + 1, updated_at = ?
WHERE key = ? AND version = ?;`,
		b, time.Now().UTC(), session.State.ID.String(), session.Version)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrConflict
	}
	return s.FetchGame(ctx, session.State.ID)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
