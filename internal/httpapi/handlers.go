package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/buzzwire/trivia-backend/internal/game"
	"github.com/buzzwire/trivia-backend/internal/match"
)

// GameState serves the current snapshot for pull-based consumers.
func GameState(m *match.Match) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := m.View(r.Context())
		if err != nil {
			http.Error(w, "match unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(match.Snapshot{Version: view.Version, State: view.State})
	}
}

// UploadBoard lets the moderator load a board from a JSON file before
// the lobby opens.
func UploadBoard(m *match.Match, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var board game.Board
		if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
			http.Error(w, "bad board json", http.StatusBadRequest)
			return
		}

		snap, err := m.Submit(r.Context(), game.Command{Type: game.CmdLoadBoard, Board: &board})
		if err != nil {
			status := http.StatusConflict
			if errors.Is(err, match.ErrShuttingDown) {
				status = http.StatusServiceUnavailable
			}
			http.Error(w, err.Error(), status)
			return
		}
		logger.Info("board loaded",
			zap.Int("categories", len(board.Categories)), zap.Int("version", snap.Version))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Version int `json:"version"`
		}{Version: snap.Version})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
