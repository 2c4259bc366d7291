package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-api/internal/mines"
	"github.com/vancomm/minesweeper-api/internal/repository"
)

const createAttempts = 3

type Options struct {
	// TurnRetries is how many times a turn is recomputed after losing a
	// race against another turn on the same game.
	TurnRetries int
	// StoreTimeout bounds every single repository call. Zero means no
	// timeout beyond the caller's context.
	StoreTimeout time.Duration
}

type Games struct {
	logger *logrus.Logger
	repo   repository.Repository
	rnd    *rand.Rand
	opts   Options
}

func New(
	logger *logrus.Logger,
	repo repository.Repository,
	rnd *rand.Rand,
	opts Options,
) *Games {
	if opts.TurnRetries < 0 {
		opts.TurnRetries = 0
	}
	return &Games{
		logger: logger,
		repo:   repo,
		rnd:    rnd,
		opts:   opts,
	}
}

func (g *Games) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.opts.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.opts.StoreTimeout)
}

// NewGame validates params and stores a fresh game.
func (g *Games) NewGame(ctx context.Context, params mines.GameParams) (*mines.GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for range createAttempts {
		game, err := mines.NewGame(params)
		if err != nil {
			return nil, err
		}

		sCtx, cancel := g.withTimeout(ctx)
		session, err := g.repo.CreateGame(sCtx, game)
		cancel()
		if errors.Is(err, repository.ErrDuplicate) {
			g.logger.WithField("game_id", game.ID).Warn("game id collision")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("unable to create game: %w", err)
		}

		g.logger.WithFields(logrus.Fields{
			"game_id":    game.ID,
			"width":      params.Width,
			"height":     params.Height,
			"mine_count": params.MineCount,
		}).Info("game created")
		return session.State, nil
	}
	return nil, fmt.Errorf("unable to allocate a game id: %w", repository.ErrDuplicate)
}

func (g *Games) fetch(ctx context.Context, id string) (*repository.GameSession, error) {
	gameID, err := mines.ParseGameID(id)
	if err != nil {
		return nil, err
	}

	sCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	session, err := g.repo.FetchGame(sCtx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: no game with id %s", mines.ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to fetch game %s: %w", gameID, err)
	}
	if err := session.State.Verify(); err != nil {
		return nil, fmt.Errorf("stored game %s is corrupted: %w", gameID, err)
	}
	return session, nil
}

// Fetch returns the stored state of a game.
func (g *Games) Fetch(ctx context.Context, id string) (*mines.GameState, error) {
	session, err := g.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.State, nil
}

// TakeTurn opens a cell and stores the result. The store write only succeeds
// if nobody else changed the game since it was read; otherwise the turn is
// recomputed from the fresh state, so a concurrent turn can never be lost or
// applied twice.
func (g *Games) TakeTurn(ctx context.Context, id string, pt mines.Point) (*mines.GameState, error) {
	for attempt := 0; attempt <= g.opts.TurnRetries; attempt++ {
		session, err := g.fetch(ctx, id)
		if err != nil {
			return nil, err
		}

		opened, err := g.takeTurn(session.State, pt)
		if err != nil {
			return nil, err
		}

		sCtx, cancel := g.withTimeout(ctx)
		_, err = g.repo.UpdateGame(sCtx, session)
		cancel()
		if errors.Is(err, repository.ErrConflict) {
			g.logger.WithFields(logrus.Fields{
				"game_id": session.State.ID,
				"attempt": attempt,
			}).Debug("turn lost a race, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("unable to store game %s: %w", session.State.ID, err)
		}

		g.logger.WithFields(logrus.Fields{
			"game_id":   session.State.ID,
			"row":       pt.Row,
			"col":       pt.Col,
			"opened":    opened,
			"completed": session.State.Completed,
		}).Info("turn taken")
		return session.State, nil
	}

	g.logger.WithField("game_id", id).Warn("turn retries exhausted")
	return nil, fmt.Errorf(
		"turn on game %s failed after %d attempts: %w",
		id, g.opts.TurnRetries+1, repository.ErrConflict,
	)
}

// takeTurn turns engine assertion panics into errors so a corrupted game
// fails the request instead of the process.
func (g *Games) takeTurn(state *mines.GameState, pt mines.Point) (opened int, err error) {
	defer func() {
		if r := recover(); r != nil {
			ae, ok := r.(mines.AssertionError)
			if !ok {
				panic(r)
			}
			opened, err = 0, ae
		}
	}()
	return state.TakeTurn(pt, g.rnd)
}
