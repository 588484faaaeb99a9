package httpx

import (
	"net/http"

	"github.com/salesboard-platform/api/internal/middleware"
)

// ErrorEnvelope is the flat error contract the dashboard consumes:
// a human-readable error plus optional details, echoing the request ID.
type ErrorEnvelope struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	WriteJSON(w, status, ErrorEnvelope{
		Error:     message,
		Details:   details,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
}
