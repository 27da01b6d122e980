package request

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleListRequests(w http.ResponseWriter, r *http.Request) {
	var statuses []Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			statuses = append(statuses, Status(strings.TrimSpace(part)))
		}
	}
	limit := parseLimit(r.URL.Query().Get("limit"))

	reqs, err := s.svc.ListRequests(r.Context(), statuses, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *HTTPServer) handleQueue(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	reqs, err := s.svc.ActiveQueue(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var in SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req, err := s.svc.SubmitRequest(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publishEvent(r.Context(), "request.created", req)
	writeJSON(w, http.StatusCreated, req)
}

func (s *HTTPServer) handlePatchRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Status        *string `json:"status"`
		PaymentStatus *string `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Status == nil && body.PaymentStatus == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	var req *Request
	var err error
	if body.Status != nil {
		req, err = s.svc.UpdateStatus(r.Context(), id, Status(*body.Status))
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if body.PaymentStatus != nil {
		req, err = s.svc.UpdatePayment(r.Context(), id, PaymentStatus(*body.PaymentStatus))
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	s.publishEvent(r.Context(), "request.updated", req)
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.DeleteRequest(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	s.publishEvent(r.Context(), "request.deleted", map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleLikeRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := s.svc.LikeRequest(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.publishEvent(r.Context(), "request.liked", map[string]any{"id": req.ID, "likes": req.Likes})
	writeJSON(w, http.StatusOK, req)
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
