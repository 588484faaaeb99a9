package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/salesboard-platform/api/internal/httpx"
	"github.com/salesboard-platform/api/internal/sheet"
	"github.com/salesboard-platform/api/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) GetExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sales, err := s.Store.ExportSales(ctx)
	if err != nil {
		s.Logger.Error("export_sales_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to export data", err.Error())
		return
	}
	categories, err := s.Store.RevenueByCategory(ctx, store.Filter{})
	if err != nil {
		s.Logger.Error("export_categories_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to export data", err.Error())
		return
	}
	regions, err := s.Store.SalesByRegion(ctx, store.Filter{})
	if err != nil {
		s.Logger.Error("export_regions_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to export data", err.Error())
		return
	}
	topProducts, err := s.Store.TopProducts(ctx, store.Filter{}, 20)
	if err != nil {
		s.Logger.Error("export_top_products_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to export data", err.Error())
		return
	}

	workbook, err := sheet.BuildWorkbook(sheet.ExportData{
		Sales:       sales,
		Categories:  categories,
		Regions:     regions,
		TopProducts: topProducts,
	})
	if err != nil {
		s.Logger.Error("export_workbook_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to export data", err.Error())
		return
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		s.Logger.Error("export_serialize_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Failed to export data", err.Error())
		return
	}

	filename := fmt.Sprintf("BI_Analytics_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())

	s.auditLog(r, "export.download", "sales_export", map[string]any{
		"filename": filename,
		"rows":     len(sales),
	})
}
