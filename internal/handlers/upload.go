package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/salesboard-platform/api/internal/httpx"
	"github.com/salesboard-platform/api/internal/importer"
	"github.com/salesboard-platform/api/internal/middleware"
	"github.com/salesboard-platform/api/internal/sheet"
)

var supportedSpreadsheetContentTypes = map[string]struct{}{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-excel":                                          {},
	"application/octet-stream":                                          {},
}

type uploadResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Processed    int      `json:"processed"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"errorDetails"`
}

// maxErrorDetails caps the error list in the response. It is a presentation
// limit: the full list goes to the server log.
const maxErrorDetails = 10

func (s *Server) PostUploadExcel(w http.ResponseWriter, r *http.Request) {
	tmpPath, filename, appErr := s.stageUpload(r)
	if appErr != nil {
		httpx.WriteError(w, r, appErr.status, appErr.message, appErr.details)
		return
	}
	// The staged artifact is removed on every path, success or not.
	defer os.Remove(tmpPath)

	file, err := os.Open(tmpPath)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to process file", err.Error())
		return
	}
	rows, err := sheet.ParseFirstSheet(file)
	file.Close()
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to process file", err.Error())
		return
	}

	if s.Config.UploadMaxRows > 0 && len(rows) > s.Config.UploadMaxRows {
		httpx.WriteError(w, r, http.StatusBadRequest, "Row limit exceeded",
			map[string]any{"maxRows": s.Config.UploadMaxRows})
		return
	}

	// Storage being down is batch-fatal, not N identical row errors.
	if err := s.DB.Ping(r.Context()); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to process file", "storage unavailable")
		return
	}

	pipeline := importer.New(s.Store, s.Config.DefaultCommissionRate)
	report, err := pipeline.Run(r.Context(), rows)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to process file", err.Error())
		return
	}

	for _, message := range report.Errors {
		s.Logger.Warn("upload_row_error", "file", filename, "message", message)
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	s.refreshReportingViews(requestID)
	s.auditLog(r, "upload.completed", "sales_batch", map[string]any{
		"filename":  filename,
		"rowsTotal": len(rows),
		"processed": report.Processed,
		"errors":    report.Failed,
	})

	httpx.WriteJSON(w, http.StatusOK, uploadResponse{
		Success:      true,
		Message:      "File processed successfully",
		Processed:    report.Processed,
		Errors:       report.Failed,
		ErrorDetails: truncateErrorDetails(report.Errors),
	})
}

// truncateErrorDetails caps the response error list at maxErrorDetails while
// the errors counter keeps the true total. Always non-nil so the field
// serializes as [] rather than null.
func truncateErrorDetails(details []string) []string {
	if len(details) > maxErrorDetails {
		return details[:maxErrorDetails]
	}
	if details == nil {
		return []string{}
	}
	return details
}

type uploadError struct {
	status  int
	message string
	details any
}

// stageUpload validates the multipart request and spills the spreadsheet to
// a temp file under the upload dir. The caller removes the file.
func (s *Server) stageUpload(r *http.Request) (string, string, *uploadError) {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		return "", "", &uploadError{http.StatusBadRequest, "Content-Type must be multipart/form-data", nil}
	}

	file, header, err := r.FormFile("excelFile")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return "", "", &uploadError{http.StatusRequestEntityTooLarge, "File exceeds the upload size limit", nil}
		}
		return "", "", &uploadError{http.StatusBadRequest, "No file uploaded", nil}
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" && ext != ".xls" {
		return "", "", &uploadError{http.StatusBadRequest, "Only Excel files are allowed", nil}
	}
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType != "" {
		if _, ok := supportedSpreadsheetContentTypes[contentType]; !ok {
			return "", "", &uploadError{http.StatusBadRequest, "Only Excel files are allowed",
				map[string]any{"contentType": contentType}}
		}
	}

	if err := os.MkdirAll(s.Config.UploadDir, 0o755); err != nil {
		return "", "", &uploadError{http.StatusInternalServerError, "Failed to process file", err.Error()}
	}
	tmp, err := os.CreateTemp(s.Config.UploadDir, "upload-*.xlsx")
	if err != nil {
		return "", "", &uploadError{http.StatusInternalServerError, "Failed to process file", err.Error()}
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return "", "", &uploadError{http.StatusRequestEntityTooLarge, "File exceeds the upload size limit", nil}
		}
		return "", "", &uploadError{http.StatusBadRequest, "Failed to read uploaded file", nil}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", &uploadError{http.StatusInternalServerError, "Failed to process file", err.Error()}
	}

	return tmp.Name(), header.Filename, nil
}
