package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-api/internal/config"
	"github.com/vancomm/minesweeper-api/internal/database"
	"github.com/vancomm/minesweeper-api/internal/mines"
	"github.com/vancomm/minesweeper-api/internal/middleware"
	"github.com/vancomm/minesweeper-api/internal/repository"
	"github.com/vancomm/minesweeper-api/internal/service"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger *logrus.Logger
	config *config.Config
	router *http.ServeMux
	repo   repository.Repository
	games  *service.Games
}

func New(logger *logrus.Logger, config *config.Config) *App {
	mines.Log = logger

	app := &App{
		logger: logger,
		config: config,
		router: http.NewServeMux(),
	}

	return app
}

// openStore connects the configured game store.
func (a *App) openStore(ctx context.Context) (repository.Repository, error) {
	switch a.config.Store {
	case config.StorePostgres:
		if a.config.Migrate {
			pool, migrator, err := database.ConnectAndMigrate(ctx, a.config.Database)
			if err != nil {
				return nil, err
			}
			version, dirty, err := migrator.Version()
			if err == nil {
				a.logger.WithFields(logrus.Fields{
					"version": version,
					"dirty":   dirty,
				}).Info("database migrated")
			}
			migrator.Close()
			return repository.New(pool), nil
		}
		pool, err := database.Connect(ctx, a.config.Database)
		if err != nil {
			return nil, err
		}
		return repository.New(pool), nil
	case config.StoreSQLite:
		return repository.OpenSQLite(ctx, a.config.SQLitePath)
	default:
		return repository.NewMemory(), nil
	}
}

// Init opens the store and registers routes. Start calls it when it has not
// been called yet.
func (a *App) Init(ctx context.Context) error {
	if a.games != nil {
		return nil
	}

	repo, err := a.openStore(ctx)
	if err != nil {
		return fmt.Errorf("unable to open %s store: %w", a.config.Store, err)
	}
	a.repo = repo

	a.games = service.New(a.logger, repo, service.NewRand(), service.Options{
		TurnRetries:  a.config.TurnRetries,
		StoreTimeout: a.config.StoreTimeout,
	})

	a.loadRoutes()
	return nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Cors(a.config.CorsOrigins),
		middleware.Logging(a.logger),
		middleware.Recover(a.logger),
	)
}

func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

// Start serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.WithError(err).Error("unable to close store")
		}
	}()

	server := &http.Server{
		Addr:         a.config.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  a.config.ReadTimeout,
		WriteTimeout: a.config.WriteTimeout,
		IdleTimeout:  a.config.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("addr", a.config.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down")
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
