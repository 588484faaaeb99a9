package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InsertSaleParams struct {
	ProductID   int64
	RegionID    int64
	PlatformID  int64
	SaleDate    time.Time
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
}

func (s *Store) InsertSale(ctx context.Context, arg InsertSaleParams) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO sales (product_id, region_id, platform_id, sale_date, quantity, unit_price, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, arg.ProductID, arg.RegionID, arg.PlatformID, arg.SaleDate, arg.Quantity, arg.UnitPrice, arg.TotalAmount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	return id, nil
}

type ExportSaleRow struct {
	ProductName  string
	CategoryName string
	RegionName   string
	PlatformName string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalAmount  decimal.Decimal
	SaleDate     time.Time
}

func (s *Store) ExportSales(ctx context.Context) ([]ExportSaleRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT
			p.name,
			c.name,
			r.name,
			pl.name,
			s.quantity,
			s.unit_price,
			s.total_amount,
			s.sale_date
		FROM sales s
		JOIN products p ON s.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN regions r ON s.region_id = r.id
		JOIN platforms pl ON s.platform_id = pl.id
		ORDER BY s.sale_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	defer rows.Close()

	var result []ExportSaleRow
	for rows.Next() {
		var row ExportSaleRow
		if err := rows.Scan(
			&row.ProductName,
			&row.CategoryName,
			&row.RegionName,
			&row.PlatformName,
			&row.Quantity,
			&row.UnitPrice,
			&row.TotalAmount,
			&row.SaleDate,
		); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
