package request

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"request-service/internal/middleware"
)

type HTTPServer struct {
	svc *Service
	rdb *redis.Client
}

// NewRouter wires the public REST surface. rdb may be nil (no broadcast),
// limiter may be nil (no throttling) — both are optional in dev mode.
func NewRouter(svc *Service, rdb *redis.Client, limiter *middleware.PerKeyLimiter) http.Handler {
	s := &HTTPServer{svc: svc, rdb: rdb}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": "request-service",
		})
	})

	// repertoire
	r.Get("/songs", s.handleListSongs)
	r.Get("/songs/search", s.handleSearchSongs)
	r.Post("/songs", s.handleCreateSong)
	r.Delete("/songs/{id}", s.handleDeleteSong)

	// requests
	r.Get("/requests", s.handleListRequests)
	r.Patch("/requests/{id}", s.handlePatchRequest)
	r.Delete("/requests/{id}", s.handleDeleteRequest)
	r.Get("/queue", s.handleQueue)

	// public writes sit behind the per-IP throttle
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.Throttle(limiter))
		}
		r.Post("/requests", s.handleCreateRequest)
		r.Post("/requests/{id}/like", s.handleLikeRequest)
	})

	// stats & eligibility
	r.Get("/stats", s.handleStats)
	r.Get("/check-free-request/{handle}", s.handleCheckFreeRequest)

	return r
}
