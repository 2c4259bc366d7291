package mines

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	tests := []struct {
		name   string
		params GameParams
		err    error
	}{
		{"smallest", GameParams{Width: 2, Height: 2, MineCount: 1}, nil},
		{"narrow", GameParams{Width: 2, Height: 30, MineCount: 1}, nil},
		{"largest", GameParams{Width: 30, Height: 30, MineCount: 899}, nil},
		{"width too small", GameParams{Width: 1, Height: 10, MineCount: 5}, ErrInvalidWidth},
		{"width too large", GameParams{Width: 31, Height: 10, MineCount: 5}, ErrInvalidWidth},
		{"height too small", GameParams{Width: 10, Height: 1, MineCount: 5}, ErrInvalidHeight},
		{"height too large", GameParams{Width: 10, Height: 31, MineCount: 5}, ErrInvalidHeight},
		{"no mines", GameParams{Width: 10, Height: 10, MineCount: 0}, ErrInvalidMineCount},
		{"all mines", GameParams{Width: 10, Height: 10, MineCount: 100}, ErrInvalidMineCount},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			game, err := NewGame(test.params)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				assert.True(t, IsRejection(err))
				assert.Nil(t, game)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, game.ID)
			assert.Equal(t, test.params, game.GameParams)
			assert.Len(t, game.Field, test.params.Cells())
			for _, c := range game.Field {
				assert.Equal(t, Hidden, c.State)
			}
			assert.Nil(t, game.Solution)
			assert.Zero(t, game.OpenCount)
			assert.False(t, game.Completed)
			assert.Equal(t, Created, game.Phase())
			assert.NoError(t, game.Verify())
		})
	}
}

func TestInvalidMineCountCarriesBound(t *testing.T) {
	_, err := NewGameParams(10, 10, 100)
	require.ErrorIs(t, err, ErrInvalidMineCount)
	assert.Contains(t, err.Error(), "99")
}

// fixedGame returns an active game with mines laid at the given points.
func fixedGame(t *testing.T, p GameParams, mines ...Point) *GameState {
	t.Helper()
	game, err := NewGame(p)
	require.NoError(t, err)
	game.Solution = mustSolution(t, p, mines...)
	return game
}

func TestFirstTurnIsSafe(t *testing.T) {
	r := newRand()
	for range 50 {
		game, err := NewGame(GameParams{Width: 5, Height: 5, MineCount: 24})
		require.NoError(t, err)

		opened, err := game.TakeTurn(Point{2, 3}, r)
		require.NoError(t, err)

		assert.Equal(t, 1, opened)
		assert.True(t, game.Completed)
		assert.True(t, game.Won())
		assert.Equal(t, Completed, game.Phase())
	}
}

func TestAlmostFullBoardWinsOnFirstTurn(t *testing.T) {
	game, err := NewGame(GameParams{Width: 10, Height: 10, MineCount: 99})
	require.NoError(t, err)

	opened, err := game.TakeTurn(Point{4, 7}, newRand())
	require.NoError(t, err)

	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, game.OpenCount)
	assert.True(t, game.Completed)
	assert.Equal(t, Cell{State: Open, Count: 8}, game.Field[game.index(Point{4, 7})])
	for i, c := range game.Field {
		if i != game.index(Point{4, 7}) {
			assert.Equal(t, SafeMine, c.State)
		}
	}
	assert.NoError(t, game.Verify())
}

func TestFirstTurnLaysMines(t *testing.T) {
	game, err := NewGame(GameParams{Width: 9, Height: 9, MineCount: 10})
	require.NoError(t, err)

	_, err = game.TakeTurn(Point{0, 0}, newRand())
	require.NoError(t, err)

	require.NotNil(t, game.Solution)
	assert.Equal(t, 10, game.Solution.Mines())
	assert.False(t, game.Solution.IsMine(0))
	assert.NoError(t, game.Verify())
}

func TestLoss(t *testing.T) {
	p := GameParams{Width: 3, Height: 3, MineCount: 2}
	game := fixedGame(t, p, Point{0, 0}, Point{2, 2})

	_, err := game.TakeTurn(Point{0, 1}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, game.OpenCount)

	opened, err := game.TakeTurn(Point{2, 2}, nil)
	require.NoError(t, err)

	assert.Zero(t, opened)
	assert.Equal(t, 1, game.OpenCount)
	assert.True(t, game.Completed)
	assert.False(t, game.Won())
	assert.Equal(t, "X1.\n...\n..X\n", game.Field.ToString(p))
	assert.NoError(t, game.Verify())
}

func TestWin(t *testing.T) {
	p := GameParams{Width: 3, Height: 3, MineCount: 1}
	game := fixedGame(t, p, Point{0, 0})

	opened, err := game.TakeTurn(Point{2, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, opened)
	assert.True(t, game.Completed)
	assert.True(t, game.Won())
	assert.Equal(t, "M10\n110\n000\n", game.Field.ToString(p))
}

func TestWinAfterSeveralTurns(t *testing.T) {
	p := GameParams{Width: 2, Height: 3, MineCount: 2}
	game := fixedGame(t, p, Point{0, 0}, Point{1, 2})

	for _, pt := range []Point{{0, 1}, {0, 2}, {1, 0}} {
		_, err := game.TakeTurn(pt, nil)
		require.NoError(t, err)
		require.False(t, game.Completed)
	}

	_, err := game.TakeTurn(Point{1, 1}, nil)
	require.NoError(t, err)
	assert.True(t, game.Completed)
	assert.Equal(t, 4, game.OpenCount)
	assert.Equal(t, "M21\n12M\n", game.Field.ToString(p))
}

func TestTakeTurnRejections(t *testing.T) {
	p := GameParams{Width: 4, Height: 3, MineCount: 1}

	tests := []struct {
		name  string
		point Point
		err   error
	}{
		{"negative row", Point{-1, 0}, ErrInvalidRow},
		{"row past width", Point{4, 0}, ErrInvalidRow},
		{"negative col", Point{0, -1}, ErrInvalidCol},
		{"col past height", Point{0, 3}, ErrInvalidCol},
		{"row checked before col", Point{-1, -1}, ErrInvalidRow},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			game, err := NewGame(p)
			require.NoError(t, err)
			_, err = game.TakeTurn(test.point, newRand())
			assert.ErrorIs(t, err, test.err)
			assert.Nil(t, game.Solution)
		})
	}
}

func TestTakeTurnAlreadyOpen(t *testing.T) {
	p := GameParams{Width: 3, Height: 3, MineCount: 1}
	game := fixedGame(t, p, Point{1, 1})

	_, err := game.TakeTurn(Point{0, 0}, nil)
	require.NoError(t, err)
	before := game.Field.Tokens()

	_, err = game.TakeTurn(Point{0, 0}, nil)
	assert.ErrorIs(t, err, ErrCellAlreadyOpen)
	assert.Equal(t, before, game.Field.Tokens())
	assert.Equal(t, 1, game.OpenCount)
}

func TestTakeTurnAfterCompletion(t *testing.T) {
	p := GameParams{Width: 3, Height: 3, MineCount: 2}
	game := fixedGame(t, p, Point{0, 0}, Point{2, 2})

	_, err := game.TakeTurn(Point{0, 0}, nil)
	require.NoError(t, err)
	require.True(t, game.Completed)

	_, err = game.TakeTurn(Point{1, 1}, nil)
	assert.ErrorIs(t, err, ErrGameCompleted)

	// an already shown mine is reported as open before completion is checked
	_, err = game.TakeTurn(Point{2, 2}, nil)
	assert.ErrorIs(t, err, ErrCellAlreadyOpen)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	p := GameParams{Width: 3, Height: 3, MineCount: 1}
	game := fixedGame(t, p, Point{1, 1})
	_, err := game.TakeTurn(Point{0, 0}, nil)
	require.NoError(t, err)

	game.OpenCount = 5
	assert.ErrorAs(t, game.Verify(), &AssertionError{})

	game.OpenCount = 1
	game.Solution.Cells[4] = 0
	assert.ErrorAs(t, game.Verify(), &AssertionError{})
}

func TestGameStateBytes(t *testing.T) {
	p := GameParams{Width: 4, Height: 4, MineCount: 3}
	game, err := NewGame(p)
	require.NoError(t, err)
	_, err = game.TakeTurn(Point{1, 2}, newRand())
	require.NoError(t, err)

	b, err := game.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameState(b)
	require.NoError(t, err)

	assert.Equal(t, game, decoded)
}

func TestParseGameID(t *testing.T) {
	id := uuid.New()
	parsed, err := ParseGameID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseGameID("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidGameIdFormat)
}
