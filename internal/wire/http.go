package wire

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rgrove-dev/parlor/internal/actorkit"
	"github.com/rgrove-dev/parlor/internal/protocol"
)

const gamesQueryTimeout = 2 * time.Second

// HandleHealthCheck mirrors lguibr-pongo/server/handlers.go's
// HandleHealthCheck: process liveness only, no game state.
func HandleHealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// HandleListGames is the GET /games ops endpoint, grounded in
// teacher's HandleGetRooms: an engine.Ask against the single session actor,
// never a direct read of the store from this HTTP goroutine.
func HandleListGames(engine *actorkit.Engine, sessionPID *actorkit.PID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		reply, err := engine.Ask(sessionPID, GamesQuery{}, gamesQueryTimeout)
		if err != nil {
			if errors.Is(err, actorkit.ErrTimeout) {
				http.Error(w, "timed out querying session state", http.StatusGatewayTimeout)
				return
			}
			http.Error(w, "error querying session state", http.StatusInternalServerError)
			return
		}
		games, _ := reply.([]protocol.GameSnapshot)
		body, err := json.Marshal(struct {
			Games []protocol.GameSnapshot `json:"games"`
		}{Games: games})
		if err != nil {
			http.Error(w, "error encoding response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
