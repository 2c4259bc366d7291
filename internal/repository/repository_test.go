package repository

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

func newGame(t *testing.T) *mines.GameState {
	t.Helper()
	game, err := mines.NewGame(mines.GameParams{Width: 5, Height: 4, MineCount: 3})
	require.NoError(t, err)
	return game
}

// testRepository runs the behaviour every backend must share.
func testRepository(t *testing.T, repo Repository) {
	ctx := context.Background()
	rnd := rand.New(rand.NewPCG(1, 2))

	t.Run("fetch missing", func(t *testing.T) {
		_, err := repo.FetchGame(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create and fetch", func(t *testing.T) {
		game := newGame(t)
		created, err := repo.CreateGame(ctx, game)
		require.NoError(t, err)
		assert.Equal(t, game.ID, created.State.ID)

		fetched, err := repo.FetchGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Version, fetched.Version)
		assert.Equal(t, game.GameParams, fetched.State.GameParams)
		assert.Equal(t, game.Field, fetched.State.Field)
		assert.Nil(t, fetched.State.Solution)
		assert.Equal(t, mines.Created, fetched.State.Phase())
	})

	t.Run("duplicate id", func(t *testing.T) {
		game := newGame(t)
		_, err := repo.CreateGame(ctx, game)
		require.NoError(t, err)
		_, err = repo.CreateGame(ctx, game)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("conditional update", func(t *testing.T) {
		game := newGame(t)
		_, err := repo.CreateGame(ctx, game)
		require.NoError(t, err)

		first, err := repo.FetchGame(ctx, game.ID)
		require.NoError(t, err)
		second, err := repo.FetchGame(ctx, game.ID)
		require.NoError(t, err)

		_, err = first.State.TakeTurn(mines.Point{Row: 0, Col: 0}, rnd)
		require.NoError(t, err)
		updated, err := repo.UpdateGame(ctx, first)
		require.NoError(t, err)
		assert.Greater(t, updated.Version, first.Version)
		assert.Equal(t, first.State.Field, updated.State.Field)
		assert.Equal(t, first.State.OpenCount, updated.State.OpenCount)
		if !updated.State.Completed {
			require.NotNil(t, updated.State.Solution)
			assert.Equal(t, first.State.Solution.Cells, updated.State.Solution.Cells)
		}

		_, err = second.State.TakeTurn(mines.Point{Row: 4, Col: 3}, rnd)
		require.NoError(t, err)
		_, err = repo.UpdateGame(ctx, second)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("completed game drops solution", func(t *testing.T) {
		game, err := mines.NewGame(mines.GameParams{Width: 2, Height: 2, MineCount: 3})
		require.NoError(t, err)
		session, err := repo.CreateGame(ctx, game)
		require.NoError(t, err)

		_, err = session.State.TakeTurn(mines.Point{Row: 1, Col: 1}, rnd)
		require.NoError(t, err)
		require.True(t, session.State.Completed)

		updated, err := repo.UpdateGame(ctx, session)
		require.NoError(t, err)
		assert.True(t, updated.State.Completed)
		assert.Nil(t, updated.State.Solution)
		assert.Equal(t, session.State.Field, updated.State.Field)
		assert.NoError(t, updated.State.Verify())
	})
}

func TestMemory(t *testing.T) {
	testRepository(t, NewMemory())
}

func TestStoredDoesNotAlias(t *testing.T) {
	game := newGame(t)
	_, err := game.TakeTurn(mines.Point{Row: 2, Col: 2}, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	s := stored(game)
	s.Field[0] = mines.Cell{State: mines.Mine}
	if s.Solution != nil {
		s.Solution.Cells[0] = 7
		assert.NotEqual(t, int8(7), game.Solution.Cells[0])
	}
	assert.NotEqual(t, mines.Mine, game.Field[0].State)
}
