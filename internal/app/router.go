package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	openapimiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/salesboard-platform/api/internal/audit"
	"github.com/salesboard-platform/api/internal/config"
	"github.com/salesboard-platform/api/internal/handlers"
	"github.com/salesboard-platform/api/internal/httpx"
	"github.com/salesboard-platform/api/internal/middleware"
	"github.com/salesboard-platform/api/internal/store"
)

func NewRouter(cfg config.Config, s *store.Store, pool *pgxpool.Pool, logger *slog.Logger) (http.Handler, error) {
	specPath, err := findSpec()
	if err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.Env))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Logging(logger))
	// The upload route needs room for the spreadsheet plus multipart framing.
	r.Use(middleware.LimitBodyBytesWithOverrides(cfg.APIMaxBodyBytes, []middleware.BodyLimitOverride{
		{PathPrefix: "/upload-excel", MaxBytes: cfg.UploadMaxFileBytes + 1<<20},
	}))

	api := chi.NewRouter()
	api.Use(openapimiddleware.OapiRequestValidatorWithOptions(doc, &openapimiddleware.Options{
		SilenceServersWarning: true,
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			requestID := w.Header().Get("X-Request-Id")
			httpx.WriteJSON(w, statusCode, httpx.ErrorEnvelope{
				Error:     message,
				RequestID: requestID,
			})
		},
	}))

	auditLogger := audit.NewLogger(s)
	h := handlers.NewServer(cfg, s, auditLogger, logger, pool)

	uploadLimiter := middleware.NewUploadRateLimiter(30, time.Minute, cfg.RateLimitMaxIPs)

	api.Get("/health", h.GetHealth)
	api.With(uploadLimiter.Middleware).Post("/upload-excel", h.PostUploadExcel)
	api.Get("/revenue-by-category", h.GetRevenueByCategory)
	api.Get("/sales-by-region", h.GetSalesByRegion)
	api.Get("/platform-performance", h.GetPlatformPerformance)
	api.Get("/monthly-trends", h.GetMonthlyTrends)
	api.Get("/stats", h.GetStats)
	api.Get("/top-products", h.GetTopProducts)
	api.Get("/categories", h.GetCategories)
	api.Get("/regions", h.GetRegions)
	api.Get("/export-excel", h.GetExportExcel)
	api.Delete("/clear-data", h.DeleteClearData)

	r.Mount("/api", api)
	return r, nil
}

// findSpec locates openapi.yaml relative to the working directory. Tests run
// from their package directory, so the repo root is checked as well.
func findSpec() (string, error) {
	candidates := []string{
		"openapi.yaml",
		filepath.Join("..", "..", "openapi.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("openapi spec not found in %v", candidates)
}
