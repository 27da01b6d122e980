package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.ListSongs(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *HTTPServer) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.svc.SearchSongs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *HTTPServer) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title     string `json:"title"`
		Artist    string `json:"artist"`
		Genre     string `json:"genre"`
		Relevance string `json:"relevance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	song := &Song{
		Title:     body.Title,
		Artist:    body.Artist,
		Genre:     body.Genre,
		Relevance: Relevance(body.Relevance),
	}
	if err := s.svc.CreateSong(r.Context(), song); err != nil {
		writeServiceError(w, err)
		return
	}

	s.publishEvent(r.Context(), "song.created", song)
	writeJSON(w, http.StatusCreated, song)
}

func (s *HTTPServer) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.DeleteSong(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	s.publishEvent(r.Context(), "song.deleted", map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
