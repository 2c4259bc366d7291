package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

// Games is the part of the game service the handlers depend on.
type Games interface {
	NewGame(ctx context.Context, params mines.GameParams) (*mines.GameState, error)
	Fetch(ctx context.Context, id string) (*mines.GameState, error)
	TakeTurn(ctx context.Context, id string, pt mines.Point) (*mines.GameState, error)
}

type GameHandler struct {
	logger   *logrus.Logger
	games    Games
	upgrader websocket.Upgrader
}

func NewGameHandler(
	logger *logrus.Logger,
	games Games,
	upgrader websocket.Upgrader,
) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		games:    games,
		upgrader: upgrader,
	}

	return handler
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	var dto NewGameDTO
	if err := decodeRequest(r, &dto); err != nil {
		sendJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	game, err := g.games.NewGame(r.Context(), dto.Params())
	if err != nil {
		sendError(w, g.logger, err)
		return
	}

	sendJSONOrLog(w, g.logger, http.StatusOK, NewGameSessionDTO(game))
}

func (g GameHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var dto TurnDTO
	if err := decodeRequest(r, &dto); err != nil {
		sendJSONOrLog(w, g.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	game, err := g.games.TakeTurn(r.Context(), dto.GameId, dto.Point())
	if err != nil {
		sendError(w, g.logger, err)
		return
	}

	sendJSONOrLog(w, g.logger, http.StatusOK, NewGameSessionDTO(game))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	game, err := g.games.Fetch(r.Context(), r.PathValue("id"))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}

	sendJSONOrLog(w, g.logger, http.StatusOK, NewGameSessionDTO(game))
}

// Connect upgrades to a WebSocket over which every text frame of the form
// {"row": r, "col": c} is a turn. Each turn is answered with the game state or
// with {"error": msg}. The socket is closed once the game is completed.
func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	game, err := g.games.Fetch(r.Context(), id)
	if err != nil {
		sendError(w, g.logger, err)
		return
	}

	c, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Error("upgrade")
		return
	}
	defer c.Close()

	logger := g.logger.WithField("game_id", game.ID)
	if err := c.WriteJSON(NewGameSessionDTO(game)); err != nil {
		logger.WithError(err).Error("write")
		return
	}

	for !game.Completed {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("read")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		logger.Debug("\t> ", string(message))

		var p PointDTO
		if err := json.Unmarshal(message, &p); err != nil {
			if err := c.WriteJSON(errorResponse{"malformed turn: " + err.Error()}); err != nil {
				logger.WithError(err).Error("write")
				return
			}
			continue
		}

		next, err := g.games.TakeTurn(r.Context(), id, mines.Point{Row: p.Row, Col: p.Col})
		if err != nil {
			reply := wrapError(err)
			switch statusOf(err) {
			case http.StatusInternalServerError:
				logger.WithError(err).Error("turn failed")
				c.WriteJSON(errorResponse{"internal error"})
				return
			case http.StatusConflict:
				reply = errorResponse{"game is busy, try again"}
			}
			if err := c.WriteJSON(reply); err != nil {
				logger.WithError(err).Error("write")
				return
			}
			continue
		}
		game = next

		if err := c.WriteJSON(NewGameSessionDTO(game)); err != nil {
			logger.WithError(err).Error("write")
			return
		}
		logger.Debug("\t< <game data>")
	}

	c.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game completed"))
}

func Status(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
