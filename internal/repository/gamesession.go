package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

type Queries struct {
	db *pgxpool.Pool
}

// New returns a PostgreSQL backed repository. The schema is created by the
// migrations in the database package.
func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

type gameSessionRow struct {
	GameId    uuid.UUID `db:"game_id"`
	Width     int       `db:"width"`
	Height    int       `db:"height"`
	MineCount int       `db:"mine_count"`
	Completed bool      `db:"completed"`
	OpenCount int       `db:"open_count"`
	Field     string    `db:"field"`
	Solution  []byte    `db:"solution"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r gameSessionRow) session() (*GameSession, error) {
	params := mines.GameParams{
		Width: r.Width, Height: r.Height, MineCount: r.MineCount,
	}
	field, err := mines.ParseField(params, r.Field)
	if err != nil {
		return nil, err
	}
	state := &mines.GameState{
		ID:         r.GameId,
		GameParams: params,
		Field:      field,
		OpenCount:  r.OpenCount,
		Completed:  r.Completed,
	}
	if r.Solution != nil {
		state.Solution = mines.SolutionFromBytes(r.Solution)
	}
	session := &GameSession{
		State:     state,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	return session, nil
}

func stateArgs(state *mines.GameState) pgx.NamedArgs {
	s := stored(state)
	var solution []byte
	if s.Solution != nil {
		solution = s.Solution.Bytes()
	}
	return pgx.NamedArgs{
		"game_id":    s.ID,
		"width":      s.Width,
		"height":     s.Height,
		"mine_count": s.MineCount,
		"completed":  s.Completed,
		"open_count": s.OpenCount,
		"field":      s.Field.Tokens(),
		"solution":   solution,
	}
}

func (q Queries) CreateGame(
	ctx context.Context, state *mines.GameState,
) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			game_id, width, height, mine_count, completed, open_count, field, solution
		)
		VALUES (
			@game_id, @width, @height, @mine_count, @completed, @open_count, @field, @solution
		)
		RETURNING *;`,
		stateArgs(state),
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[gameSessionRow])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return row.session()
}

func (q Queries) FetchGame(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_id = $1",
		id,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[gameSessionRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.session()
}

func (q Queries) UpdateGame(
	ctx context.Context, session *GameSession,
) (*GameSession, error) {
	args := stateArgs(session.State)
	args["version"] = session.Version
	rows, _ := q.db.Query(
		ctx,
		`UPDATE game_session
		SET completed = @completed
			, open_count = @open_count
			, field = @field
			, solution = @solution
			, version = version + 1
		WHERE game_id = @game_id AND version = @version
		RETURNING *;`,
		args,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[gameSessionRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return row.session()
}

func (q Queries) Close() error {
	q.db.Close()
	return nil
}
