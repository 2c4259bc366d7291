package app

import (
	"github.com/vancomm/minesweeper-api/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(a.logger, a.games, a.config.NewUpgrader())

	base := a.config.BasePath
	a.router.HandleFunc("POST "+base+"/api/new", game.NewGame)
	a.router.HandleFunc("POST "+base+"/api/turn", game.Turn)
	a.router.HandleFunc("GET "+base+"/api/game/{id}", game.Fetch)
	a.router.HandleFunc("GET "+base+"/api/game/{id}/connect", game.Connect)
	a.router.HandleFunc("GET "+base+"/status", handlers.Status)
}
