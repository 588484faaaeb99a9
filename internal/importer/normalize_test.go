package importer

import (
	"testing"
	"time"
)

func TestNormalizeRowLocalizedHeaders(t *testing.T) {
	row := map[string]string{
		"Товар":           "Widget",
		"Категория":       "Tools",
		"Регион":          "North",
		"Площадка":        "ShopX",
		"Количество":      "3",
		"Цена за единицу": "10",
	}

	rec, err := NormalizeRow(row, 2)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if rec.ProductName != "Widget" || rec.CategoryName != "Tools" || rec.RegionName != "North" || rec.PlatformName != "ShopX" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.QuantityRaw != "3" || rec.UnitPriceRaw != "10" {
		t.Fatalf("unexpected raw amounts: %q %q", rec.QuantityRaw, rec.UnitPriceRaw)
	}
	if rec.SaleDate != nil {
		t.Fatalf("expected no sale date, got %v", rec.SaleDate)
	}
}

func TestNormalizeRowAliasPriority(t *testing.T) {
	// The canonical English name outranks the localized one.
	row := map[string]string{
		"product_name":  "Canonical",
		"Товар":         "Localized",
		"category_name": "Tools",
		"region_name":   "North",
		"platform_name": "ShopX",
		"qty":           "1",
		"unit_cost":     "5",
	}

	rec, err := NormalizeRow(row, 2)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if rec.ProductName != "Canonical" {
		t.Fatalf("expected canonical alias to win, got %q", rec.ProductName)
	}
	if rec.QuantityRaw != "1" || rec.UnitPriceRaw != "5" {
		t.Fatalf("synonym aliases not resolved: %+v", rec)
	}
}

func TestNormalizeRowMissingRequiredFields(t *testing.T) {
	row := map[string]string{
		"Товар":      "Widget",
		"Категория":  "Tools",
		"Количество": "3",
	}

	_, err := NormalizeRow(row, 7)
	missingErr, ok := err.(*MissingFieldError)
	if !ok {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missingErr.RowNumber != 7 {
		t.Fatalf("expected row 7 in error, got %d", missingErr.RowNumber)
	}
	want := map[string]bool{FieldRegionName: true, FieldPlatformName: true, FieldUnitPrice: true}
	if len(missingErr.Fields) != len(want) {
		t.Fatalf("unexpected missing fields: %v", missingErr.Fields)
	}
	for _, field := range missingErr.Fields {
		if !want[field] {
			t.Fatalf("unexpected missing field %q", field)
		}
	}
}

func TestNormalizeRowKeepsNamesVerbatim(t *testing.T) {
	// Dimension names are exact keys: whitespace variants stay distinct.
	row := map[string]string{
		"Товар":           "Widget ",
		"Категория":       " Tools",
		"Регион":          "North",
		"Площадка":        "ShopX",
		"Количество":      "3",
		"Цена за единицу": "10",
	}

	rec, err := NormalizeRow(row, 2)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if rec.ProductName != "Widget " || rec.CategoryName != " Tools" {
		t.Fatalf("names were normalized: %+v", rec)
	}
}

func TestNormalizeRowDateParsing(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  *time.Time
	}{
		{"iso", "2024-03-15", timePtr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"dotted", "15.03.2024", timePtr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"slashed", "03/15/2024", timePtr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"garbage", "next tuesday", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := map[string]string{
				"Товар":           "Widget",
				"Категория":       "Tools",
				"Регион":          "North",
				"Площадка":        "ShopX",
				"Количество":      "3",
				"Цена за единицу": "10",
				"Дата продажи":    tc.value,
			}
			rec, err := NormalizeRow(row, 2)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if tc.want == nil {
				// Bad dates never fail the row; the pipeline falls
				// back to the processing time.
				if rec.SaleDate != nil {
					t.Fatalf("expected no date, got %v", rec.SaleDate)
				}
				return
			}
			if rec.SaleDate == nil || !rec.SaleDate.Equal(*tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, rec.SaleDate)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
