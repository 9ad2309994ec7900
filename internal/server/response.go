package server

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		requestLogger(r).Error("failed to write JSON response", "status", status, "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeErrorDetails(w, r, status, msg, nil)
}

func writeErrorDetails(w http.ResponseWriter, r *http.Request, status int, msg string, details map[string]any) {
	writeJSON(w, r, status, ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: RequestIDFrom(r.Context()),
	})
}
