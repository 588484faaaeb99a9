package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter is the uniform reporting filter contract: every report accepts the
// same optional date window and category/region narrowing.
type Filter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	CategoryID *int64
	RegionID   *int64
}

// appendConditions grows the WHERE clause with one positional parameter per
// present filter, mirroring how the dashboard queries are shaped.
func (f Filter) appendConditions(sb *strings.Builder, args []any) []any {
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		fmt.Fprintf(sb, " AND s.sale_date >= $%d", len(args))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		fmt.Fprintf(sb, " AND s.sale_date <= $%d", len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		fmt.Fprintf(sb, " AND c.id = $%d", len(args))
	}
	if f.RegionID != nil {
		args = append(args, *f.RegionID)
		fmt.Fprintf(sb, " AND r.id = $%d", len(args))
	}
	return args
}

type CategoryRevenueRow struct {
	Category      string
	TotalSales    int64
	TotalQuantity decimal.Decimal
	TotalRevenue  decimal.Decimal
	AvgSaleAmount decimal.Decimal
}

func (s *Store) RevenueByCategory(ctx context.Context, filter Filter) ([]CategoryRevenueRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			c.name AS category,
			COUNT(s.id) AS total_sales,
			SUM(s.quantity) AS total_quantity,
			SUM(s.total_amount) AS total_revenue,
			AVG(s.total_amount) AS avg_sale_amount
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		WHERE 1=1`)
	args := filter.appendConditions(&sb, nil)
	sb.WriteString(`
		GROUP BY c.id, c.name
		ORDER BY total_revenue DESC`)

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("revenue by category: %w", err)
	}
	defer rows.Close()

	var result []CategoryRevenueRow
	for rows.Next() {
		var row CategoryRevenueRow
		if err := rows.Scan(&row.Category, &row.TotalSales, &row.TotalQuantity, &row.TotalRevenue, &row.AvgSaleAmount); err != nil {
			return nil, fmt.Errorf("scan category revenue: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

type RegionSalesRow struct {
	Region        string
	TotalSales    int64
	TotalQuantity decimal.Decimal
	TotalRevenue  decimal.Decimal
	AvgSaleAmount decimal.Decimal
}

func (s *Store) SalesByRegion(ctx context.Context, filter Filter) ([]RegionSalesRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			r.name AS region,
			COUNT(s.id) AS total_sales,
			SUM(s.quantity) AS total_quantity,
			SUM(s.total_amount) AS total_revenue,
			AVG(s.total_amount) AS avg_sale_amount
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		WHERE 1=1`)
	args := filter.appendConditions(&sb, nil)
	sb.WriteString(`
		GROUP BY r.id, r.name
		ORDER BY total_revenue DESC`)

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("sales by region: %w", err)
	}
	defer rows.Close()

	var result []RegionSalesRow
	for rows.Next() {
		var row RegionSalesRow
		if err := rows.Scan(&row.Region, &row.TotalSales, &row.TotalQuantity, &row.TotalRevenue, &row.AvgSaleAmount); err != nil {
			return nil, fmt.Errorf("scan region sales: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

type PlatformPerformanceRow struct {
	Platform        string
	CommissionRate  decimal.Decimal
	TotalSales      int64
	GrossRevenue    decimal.Decimal
	TotalCommission decimal.Decimal
	NetRevenue      decimal.Decimal
}

func (s *Store) PlatformPerformance(ctx context.Context, filter Filter) ([]PlatformPerformanceRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			pl.name AS platform,
			pl.commission_rate,
			COUNT(s.id) AS total_sales,
			SUM(s.total_amount) AS gross_revenue,
			SUM(s.total_amount * pl.commission_rate / 100) AS total_commission,
			SUM(s.total_amount - (s.total_amount * pl.commission_rate / 100)) AS net_revenue
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		JOIN platforms pl ON s.platform_id = pl.id
		WHERE 1=1`)
	args := filter.appendConditions(&sb, nil)
	sb.WriteString(`
		GROUP BY pl.id, pl.name, pl.commission_rate
		ORDER BY gross_revenue DESC`)

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("platform performance: %w", err)
	}
	defer rows.Close()

	var result []PlatformPerformanceRow
	for rows.Next() {
		var row PlatformPerformanceRow
		if err := rows.Scan(&row.Platform, &row.CommissionRate, &row.TotalSales, &row.GrossRevenue, &row.TotalCommission, &row.NetRevenue); err != nil {
			return nil, fmt.Errorf("scan platform performance: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

type MonthlyTrendRow struct {
	Month         time.Time
	TotalSales    int64
	TotalRevenue  decimal.Decimal
	AvgSaleAmount decimal.Decimal
}

func (s *Store) MonthlyTrends(ctx context.Context, filter Filter) ([]MonthlyTrendRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			DATE_TRUNC('month', s.sale_date) AS month,
			COUNT(*) AS total_sales,
			SUM(s.total_amount) AS total_revenue,
			AVG(s.total_amount) AS avg_sale_amount
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		WHERE 1=1`)
	args := filter.appendConditions(&sb, nil)
	sb.WriteString(`
		GROUP BY DATE_TRUNC('month', s.sale_date)
		ORDER BY month`)

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}
	defer rows.Close()

	var result []MonthlyTrendRow
	for rows.Next() {
		var row MonthlyTrendRow
		if err := rows.Scan(&row.Month, &row.TotalSales, &row.TotalRevenue, &row.AvgSaleAmount); err != nil {
			return nil, fmt.Errorf("scan monthly trend: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

type GlobalStats struct {
	TotalSales     int64
	TotalRevenue   decimal.Decimal
	TotalProducts  int64
	TotalRegions   int64
	TotalPlatforms int64
}

func (s *Store) Stats(ctx context.Context, filter Filter) (GlobalStats, error) {
	var stats GlobalStats

	var sb strings.Builder
	sb.WriteString(`
		SELECT COUNT(*), COALESCE(SUM(s.total_amount), 0)
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		WHERE 1=1`)
	args := filter.appendConditions(&sb, nil)
	if err := s.db.QueryRow(ctx, sb.String(), args...).Scan(&stats.TotalSales, &stats.TotalRevenue); err != nil {
		return GlobalStats{}, fmt.Errorf("stats sales: %w", err)
	}

	sb.Reset()
	sb.WriteString(`
		SELECT COUNT(DISTINCT p.id)
		FROM products p
		JOIN sales s ON p.id = s.product_id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		WHERE 1=1`)
	args = filter.appendConditions(&sb, nil)
	if err := s.db.QueryRow(ctx, sb.String(), args...).Scan(&stats.TotalProducts); err != nil {
		return GlobalStats{}, fmt.Errorf("stats products: %w", err)
	}

	sb.Reset()
	sb.WriteString(`
		SELECT COUNT(DISTINCT r.id)
		FROM regions r
		JOIN sales s ON r.id = s.region_id
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE 1=1`)
	args = filter.appendConditions(&sb, nil)
	if err := s.db.QueryRow(ctx, sb.String(), args...).Scan(&stats.TotalRegions); err != nil {
		return GlobalStats{}, fmt.Errorf("stats regions: %w", err)
	}

	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM platforms`).Scan(&stats.TotalPlatforms); err != nil {
		return GlobalStats{}, fmt.Errorf("stats platforms: %w", err)
	}

	return stats, nil
}

type TopProductRow struct {
	Name         string
	Category     string
	SalesCount   int64
	TotalRevenue decimal.Decimal
	AvgPrice     decimal.Decimal
}

func (s *Store) TopProducts(ctx context.Context, filter Filter, limit int) ([]TopProductRow, error) {
	if limit <= 0 {
		limit = 10
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT
			p.name,
			c.name AS category,
			COUNT(s.id) AS sales_count,
			SUM(s.total_amount) AS total_revenue,
			AVG(s.unit_price) AS avg_price
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		WHERE 1=1`)
	args := filter.appendConditions(&sb, nil)
	args = append(args, limit)
	fmt.Fprintf(&sb, `
		GROUP BY p.id, p.name, c.name
		ORDER BY total_revenue DESC
		LIMIT $%d`, len(args))

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var result []TopProductRow
	for rows.Next() {
		var row TopProductRow
		if err := rows.Scan(&row.Name, &row.Category, &row.SalesCount, &row.TotalRevenue, &row.AvgPrice); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

type DimensionRow struct {
	ID   int64
	Name string
}

// ListActiveCategories returns only categories that have recorded sales, for
// the dashboard filter dropdowns.
func (s *Store) ListActiveCategories(ctx context.Context) ([]DimensionRow, error) {
	return s.listDimension(ctx, `
		SELECT DISTINCT c.id, c.name
		FROM categories c
		JOIN products p ON c.id = p.category_id
		JOIN sales s ON p.id = s.product_id
		ORDER BY c.name`)
}

func (s *Store) ListActiveRegions(ctx context.Context) ([]DimensionRow, error) {
	return s.listDimension(ctx, `
		SELECT DISTINCT r.id, r.name
		FROM regions r
		JOIN sales s ON r.id = s.region_id
		ORDER BY r.name`)
}

func (s *Store) listDimension(ctx context.Context, query string) ([]DimensionRow, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dimension: %w", err)
	}
	defer rows.Close()

	var result []DimensionRow
	for rows.Next() {
		var row DimensionRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, fmt.Errorf("scan dimension: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
