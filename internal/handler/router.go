package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter assembles the full route tree. The story routes sit behind the
// bearer token gate; the auth routes are public.
func NewRouter(
	authHandler *AuthHandler,
	storyHandler *StoryHandler,
	authGate func(http.Handler) http.Handler,
	logger *zerolog.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", authHandler.Routes)

	r.Route("/api/story", func(r chi.Router) {
		r.Use(authGate)
		storyHandler.Routes(r)
	})

	return r
}
