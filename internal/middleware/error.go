package middleware

import (
	"encoding/json"
	"net/http"
)

type errorEnvelope struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error:     message,
		Details:   details,
		RequestID: RequestIDFromContext(r.Context()),
	})
}
