package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesboard-platform/api/internal/audit"
	"github.com/salesboard-platform/api/internal/config"
	"github.com/salesboard-platform/api/internal/httpx"
	"github.com/salesboard-platform/api/internal/middleware"
	"github.com/salesboard-platform/api/internal/store"
)

type Server struct {
	Config config.Config
	Store  *store.Store
	Audit  *audit.Logger
	Logger *slog.Logger
	DB     *pgxpool.Pool
}

func NewServer(cfg config.Config, s *store.Store, auditLogger *audit.Logger, logger *slog.Logger, db *pgxpool.Pool) *Server {
	return &Server{Config: cfg, Store: s, Audit: auditLogger, Logger: logger, DB: db}
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK", "message": "BI API is up"})
}

// refreshReportingViews is fire-and-forget housekeeping after ingestion and
// clear-data: outcomes are logged, never surfaced to the caller.
func (s *Server) refreshReportingViews(requestID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, view := range store.ReportingViews {
			if err := s.Store.RefreshView(ctx, view); err != nil {
				s.Logger.Warn("view_refresh_skipped", "view", view, "error", err, "request_id", requestID)
			}
		}
	}()
}

func (s *Server) auditLog(r *http.Request, action, entityType string, metadata map[string]any) {
	entry := audit.Entry{
		Action:     action,
		EntityType: entityType,
		RequestID:  middleware.RequestIDFromContext(r.Context()),
		Metadata:   metadata,
	}
	if err := s.Audit.Log(r.Context(), entry); err != nil {
		s.Logger.Warn("audit_log_failed", "action", action, "error", err)
	}
}
