package request

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *HTTPServer) handleCheckFreeRequest(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	free, total, err := s.svc.CheckFreeEligibility(r.Context(), handle)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"has_free_request": free,
		"total_requests":   total,
	})
}
