package handlers

import (
	"net/http"

	"github.com/salesboard-platform/api/internal/httpx"
	"github.com/salesboard-platform/api/internal/middleware"
)

type clearDataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) DeleteClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.ClearAll(r.Context()); err != nil {
		s.Logger.Error("clear_data_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to clear data", err.Error())
		return
	}

	s.refreshReportingViews(middleware.RequestIDFromContext(r.Context()))
	s.auditLog(r, "data.cleared", "all", nil)

	httpx.WriteJSON(w, http.StatusOK, clearDataResponse{
		Success: true,
		Message: "All data cleared successfully",
	})
}
