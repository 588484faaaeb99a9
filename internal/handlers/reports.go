package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/salesboard-platform/api/internal/httpx"
	"github.com/salesboard-platform/api/internal/store"
)

// parseFilter reads the uniform query contract shared by every report:
// dateFrom, dateTo (YYYY-MM-DD), categoryId, regionId.
func parseFilter(r *http.Request) (store.Filter, error) {
	var filter store.Filter
	q := r.URL.Query()

	if raw := q.Get("dateFrom"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.Filter{}, fmt.Errorf("dateFrom must be YYYY-MM-DD")
		}
		filter.DateFrom = &parsed
	}
	if raw := q.Get("dateTo"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return store.Filter{}, fmt.Errorf("dateTo must be YYYY-MM-DD")
		}
		// Inclusive upper bound: cover the whole day.
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	if raw := q.Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Filter{}, fmt.Errorf("categoryId must be an integer")
		}
		filter.CategoryID = &id
	}
	if raw := q.Get("regionId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.Filter{}, fmt.Errorf("regionId must be an integer")
		}
		filter.RegionID = &id
	}

	return filter, nil
}

type categoryRevenueResponse struct {
	Category      string  `json:"category"`
	TotalSales    int64   `json:"total_sales"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgSaleAmount float64 `json:"avg_sale_amount"`
}

func (s *Server) GetRevenueByCategory(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows, err := s.Store.RevenueByCategory(r.Context(), filter)
	if err != nil {
		s.Logger.Error("revenue_by_category_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}

	result := make([]categoryRevenueResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, categoryRevenueResponse{
			Category:      row.Category,
			TotalSales:    row.TotalSales,
			TotalQuantity: row.TotalQuantity.InexactFloat64(),
			TotalRevenue:  row.TotalRevenue.InexactFloat64(),
			AvgSaleAmount: row.AvgSaleAmount.InexactFloat64(),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type regionSalesResponse struct {
	Region        string  `json:"region"`
	TotalSales    int64   `json:"total_sales"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgSaleAmount float64 `json:"avg_sale_amount"`
}

func (s *Server) GetSalesByRegion(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows, err := s.Store.SalesByRegion(r.Context(), filter)
	if err != nil {
		s.Logger.Error("sales_by_region_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}

	result := make([]regionSalesResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, regionSalesResponse{
			Region:        row.Region,
			TotalSales:    row.TotalSales,
			TotalQuantity: row.TotalQuantity.InexactFloat64(),
			TotalRevenue:  row.TotalRevenue.InexactFloat64(),
			AvgSaleAmount: row.AvgSaleAmount.InexactFloat64(),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type platformPerformanceResponse struct {
	Platform        string  `json:"platform"`
	CommissionRate  float64 `json:"commission_rate"`
	TotalSales      int64   `json:"total_sales"`
	GrossRevenue    float64 `json:"gross_revenue"`
	TotalCommission float64 `json:"total_commission"`
	NetRevenue      float64 `json:"net_revenue"`
}

func (s *Server) GetPlatformPerformance(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows, err := s.Store.PlatformPerformance(r.Context(), filter)
	if err != nil {
		s.Logger.Error("platform_performance_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}

	result := make([]platformPerformanceResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, platformPerformanceResponse{
			Platform:        row.Platform,
			CommissionRate:  row.CommissionRate.InexactFloat64(),
			TotalSales:      row.TotalSales,
			GrossRevenue:    row.GrossRevenue.InexactFloat64(),
			TotalCommission: row.TotalCommission.InexactFloat64(),
			NetRevenue:      row.NetRevenue.InexactFloat64(),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type monthlyTrendResponse struct {
	Month         time.Time `json:"month"`
	TotalSales    int64     `json:"total_sales"`
	TotalRevenue  float64   `json:"total_revenue"`
	AvgSaleAmount float64   `json:"avg_sale_amount"`
}

func (s *Server) GetMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows, err := s.Store.MonthlyTrends(r.Context(), filter)
	if err != nil {
		s.Logger.Error("monthly_trends_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}

	result := make([]monthlyTrendResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, monthlyTrendResponse{
			Month:         row.Month.UTC(),
			TotalSales:    row.TotalSales,
			TotalRevenue:  row.TotalRevenue.InexactFloat64(),
			AvgSaleAmount: row.AvgSaleAmount.InexactFloat64(),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type statsResponse struct {
	TotalSales     int64   `json:"total_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalProducts  int64   `json:"total_products"`
	TotalRegions   int64   `json:"total_regions"`
	TotalPlatforms int64   `json:"total_platforms"`
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	stats, err := s.Store.Stats(r.Context(), filter)
	if err != nil {
		s.Logger.Error("stats_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statsResponse{
		TotalSales:     stats.TotalSales,
		TotalRevenue:   stats.TotalRevenue.InexactFloat64(),
		TotalProducts:  stats.TotalProducts,
		TotalRegions:   stats.TotalRegions,
		TotalPlatforms: stats.TotalPlatforms,
	})
}

type topProductResponse struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SalesCount   int64   `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgPrice     float64 `json:"avg_price"`
}

func (s *Server) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows, err := s.Store.TopProducts(r.Context(), filter, 10)
	if err != nil {
		s.Logger.Error("top_products_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}

	result := make([]topProductResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, topProductResponse{
			Name:         row.Name,
			Category:     row.Category,
			SalesCount:   row.SalesCount,
			TotalRevenue: row.TotalRevenue.InexactFloat64(),
			AvgPrice:     row.AvgPrice.InexactFloat64(),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type dimensionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListActiveCategories(r.Context())
	if err != nil {
		s.Logger.Error("list_categories_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}
	s.writeDimensions(w, rows)
}

func (s *Server) GetRegions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListActiveRegions(r.Context())
	if err != nil {
		s.Logger.Error("list_regions_failed", "error", err)
		httpx.WriteError(w, r, http.StatusInternalServerError, "Server error", nil)
		return
	}
	s.writeDimensions(w, rows)
}

func (s *Server) writeDimensions(w http.ResponseWriter, rows []store.DimensionRow) {
	result := make([]dimensionResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dimensionResponse{ID: row.ID, Name: row.Name})
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}
