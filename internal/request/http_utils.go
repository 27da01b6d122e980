package request

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("request-service: %v", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// publishEvent broadcasts a mutation so a realtime tier can fan it out to
// polling or websocket clients. Best effort; failures only log.
func (s *HTTPServer) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.rdb == nil {
		return
	}
	body := map[string]any{
		"type":    eventType,
		"payload": payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("request-service: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("request-service: publish event: %v", err)
	}
}
