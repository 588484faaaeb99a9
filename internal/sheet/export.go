package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/salesboard-platform/api/internal/store"
)

// ExportData is everything the analytics workbook carries.
type ExportData struct {
	Sales       []store.ExportSaleRow
	Categories  []store.CategoryRevenueRow
	Regions     []store.RegionSalesRow
	TopProducts []store.TopProductRow
}

// Sheet and header names stay in the dashboard's language; they are data the
// business reads, not identifiers.
const (
	sheetSales      = "Продажи"
	sheetCategories = "По категориям"
	sheetRegions    = "По регионам"
	sheetTop        = "Топ товары"
)

const exportDateFormat = "02.01.2006"

// BuildWorkbook assembles the four-sheet analytics export. The caller owns
// closing the returned file.
func BuildWorkbook(data ExportData) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetSales); err != nil {
		return nil, fmt.Errorf("rename sales sheet: %w", err)
	}

	salesRows := make([][]any, 0, len(data.Sales)+1)
	salesRows = append(salesRows, []any{
		"Товар", "Категория", "Регион", "Площадка",
		"Количество", "Цена за единицу", "Общая сумма", "Дата продажи",
	})
	for _, sale := range data.Sales {
		salesRows = append(salesRows, []any{
			sale.ProductName,
			sale.CategoryName,
			sale.RegionName,
			sale.PlatformName,
			sale.Quantity.InexactFloat64(),
			sale.UnitPrice.InexactFloat64(),
			sale.TotalAmount.InexactFloat64(),
			sale.SaleDate.Format(exportDateFormat),
		})
	}
	if err := writeSheet(f, sheetSales, salesRows); err != nil {
		return nil, err
	}

	categoryRows := [][]any{{"Категория", "Количество продаж", "Общий доход", "Средняя цена"}}
	for _, row := range data.Categories {
		categoryRows = append(categoryRows, []any{
			row.Category,
			row.TotalSales,
			row.TotalRevenue.InexactFloat64(),
			row.AvgSaleAmount.InexactFloat64(),
		})
	}
	if err := addSheet(f, sheetCategories, categoryRows); err != nil {
		return nil, err
	}

	regionRows := [][]any{{"Регион", "Количество продаж", "Общий доход", "Средняя цена"}}
	for _, row := range data.Regions {
		regionRows = append(regionRows, []any{
			row.Region,
			row.TotalSales,
			row.TotalRevenue.InexactFloat64(),
			row.AvgSaleAmount.InexactFloat64(),
		})
	}
	if err := addSheet(f, sheetRegions, regionRows); err != nil {
		return nil, err
	}

	topRows := [][]any{{"Товар", "Категория", "Количество продаж", "Общий доход", "Средняя цена"}}
	for _, row := range data.TopProducts {
		topRows = append(topRows, []any{
			row.Name,
			row.Category,
			row.SalesCount,
			row.TotalRevenue.InexactFloat64(),
			row.AvgPrice.InexactFloat64(),
		})
	}
	if err := addSheet(f, sheetTop, topRows); err != nil {
		return nil, err
	}

	return f, nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return writeSheet(f, name, rows)
}

func writeSheet(f *excelize.File, name string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name for %q row %d: %w", name, i+1, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write %q row %d: %w", name, i+1, err)
		}
	}
	return nil
}
