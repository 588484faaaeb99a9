package importer

import (
	"strings"
	"time"
)

// Canonical field names of an ingestion record.
const (
	FieldProductName  = "product_name"
	FieldCategoryName = "category_name"
	FieldRegionName   = "region_name"
	FieldPlatformName = "platform_name"
	FieldQuantity     = "quantity"
	FieldUnitPrice    = "unit_price"
	FieldSaleDate     = "sale_date"
)

// fieldAliases maps each canonical field to its recognized header variants in
// priority order: canonical English name, localized name, common synonyms.
// The first present, non-empty cell wins. Kept as data so tolerating another
// header variant is a one-line change.
var fieldAliases = map[string][]string{
	FieldProductName:  {"product_name", "Товар", "name", "product"},
	FieldCategoryName: {"category_name", "Категория", "category"},
	FieldRegionName:   {"region_name", "Регион", "region"},
	FieldPlatformName: {"platform_name", "Площадка", "platform"},
	FieldQuantity:     {"quantity", "Количество", "qty"},
	FieldUnitPrice:    {"unit_price", "Цена за единицу", "price", "unit_cost"},
	FieldSaleDate:     {"sale_date", "Дата продажи", "date"},
}

// requiredFields lists what must be present for a row to be ingestible.
// sale_date is optional; the pipeline substitutes the processing time.
var requiredFields = []string{
	FieldProductName,
	FieldCategoryName,
	FieldRegionName,
	FieldPlatformName,
	FieldQuantity,
	FieldUnitPrice,
}

// Record is one canonical ingestion record. Quantity and unit price are kept
// as the raw cell text: presence is decided here, numeric coercion is decided
// by the pipeline when it computes the total amount.
type Record struct {
	ProductName  string
	CategoryName string
	RegionName   string
	PlatformName string
	QuantityRaw  string
	UnitPriceRaw string
	SaleDate     *time.Time
}

// NormalizeRow maps a raw spreadsheet row onto a Record. rowNumber is the
// 1-based spreadsheet row (data row 1 arrives as row 2, after the header) and
// is only used for error reporting. Dimension name values are taken verbatim:
// no trimming, no case folding.
func NormalizeRow(row map[string]string, rowNumber int) (Record, error) {
	resolved := make(map[string]string, len(fieldAliases))
	for field, aliases := range fieldAliases {
		for _, alias := range aliases {
			if value, ok := row[alias]; ok && value != "" {
				resolved[field] = value
				break
			}
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if resolved[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Record{}, &MissingFieldError{RowNumber: rowNumber, Fields: missing}
	}

	rec := Record{
		ProductName:  resolved[FieldProductName],
		CategoryName: resolved[FieldCategoryName],
		RegionName:   resolved[FieldRegionName],
		PlatformName: resolved[FieldPlatformName],
		QuantityRaw:  resolved[FieldQuantity],
		UnitPriceRaw: resolved[FieldUnitPrice],
	}

	// Best effort: an unparseable date never blocks ingestion.
	if raw := resolved[FieldSaleDate]; raw != "" {
		if parsed, ok := parseFlexibleDate(raw); ok {
			rec.SaleDate = &parsed
		}
	}

	return rec, nil
}

// dateFormats covers the shapes spreadsheet tools render dates in: ISO,
// slashed and dotted day-month orders, and the default xlsx short form.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"01-02-06",
	"01-02-2006",
}

func parseFlexibleDate(value string) (time.Time, bool) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		parsed, err := time.Parse(format, raw)
		if err != nil {
			continue
		}
		return parsed.UTC(), true
	}
	return time.Time{}, false
}
