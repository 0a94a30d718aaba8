package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/buzzwire/trivia-backend/internal/match"
	"github.com/buzzwire/trivia-backend/internal/ws"
)

func SetupRoutes(m *match.Match, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/state", GameState(m))
	r.Post("/board", UploadBoard(m, logger))
	r.Get("/ws", ws.Handler(m, logger.Named("ws")))
	return r
}
