package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// NewUpgrader accepts WebSocket connections from the given origins, or from
// anywhere when origins is empty.
func (c Config) NewUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(c.CorsOrigins) == 0 {
				return true
			}
			return slices.Contains(c.CorsOrigins, r.Header.Get("Origin"))
		},
	}
}
