package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type NewGameDTO struct {
	Width     int `json:"width" schema:"width,required"`
	Height    int `json:"height" schema:"height,required"`
	MineCount int `json:"mines_count" schema:"mines_count,required"`
}

func (d NewGameDTO) Params() mines.GameParams {
	return mines.GameParams{
		Width:     d.Width,
		Height:    d.Height,
		MineCount: d.MineCount,
	}
}

type TurnDTO struct {
	GameId string `json:"game_id" schema:"game_id,required"`
	Row    int    `json:"row" schema:"row,required"`
	Col    int    `json:"col" schema:"col,required"`
}

func (d TurnDTO) Point() mines.Point {
	return mines.Point{Row: d.Row, Col: d.Col}
}

type PointDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// decodeRequest reads a JSON body, or falls back to form values and the
// query string for any other content type.
func decodeRequest(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("malformed json body: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("malformed form body: %w", err)
	}
	return decoder.Decode(dst, r.Form)
}

type GameSessionDTO struct {
	GameId    string     `json:"game_id"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	MineCount int        `json:"mines_count"`
	Completed bool       `json:"completed"`
	Field     [][]string `json:"field"`
}

func NewGameSessionDTO(g *mines.GameState) *GameSessionDTO {
	return &GameSessionDTO{
		GameId:    g.ID.String(),
		Width:     g.Width,
		Height:    g.Height,
		MineCount: g.MineCount,
		Completed: g.Completed,
		Field:     g.Field.Rows(g.GameParams),
	}
}
