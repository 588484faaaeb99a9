package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesboard-platform/api/internal/store"
)

// Store is the storage surface the pipeline drives. *store.Store satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	EnsureCategory(ctx context.Context, name, description string) (int64, error)
	EnsureRegion(ctx context.Context, name string) (int64, error)
	EnsurePlatform(ctx context.Context, name string, commissionRate decimal.Decimal) (int64, error)
	EnsureProduct(ctx context.Context, arg store.EnsureProductParams) (int64, error)
	InsertSale(ctx context.Context, arg store.InsertSaleParams) (int64, error)
}

// Pipeline ingests one uploaded batch: normalize, resolve dimensions,
// compute the derived amount, persist the fact row. Rows are processed
// strictly in sequence; one bad row never aborts the batch.
type Pipeline struct {
	store          Store
	commissionRate decimal.Decimal
	now            func() time.Time
}

func New(s Store, defaultCommissionRate decimal.Decimal) *Pipeline {
	return &Pipeline{
		store:          s,
		commissionRate: defaultCommissionRate,
		now:            time.Now,
	}
}

// Report is the batch-level outcome. Errors carries every row-scoped message;
// presentation-layer truncation is the caller's concern.
type Report struct {
	Processed int
	Failed    int
	Errors    []string
}

// headerRowOffset converts a 0-based data row index into the row number the
// user sees in the spreadsheet (row 1 is the header).
const headerRowOffset = 2

// Run drives ingestion for every raw row of the batch. Only a cancelled
// context stops the loop early; storage failures are row-scoped.
func (p *Pipeline) Run(ctx context.Context, rows []map[string]string) (Report, error) {
	report := Report{}

	for idx, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		rowNumber := idx + headerRowOffset
		if err := p.processRow(ctx, row, rowNumber); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, rowMessage(rowNumber, err))
			continue
		}
		report.Processed++
	}

	return report, nil
}

func (p *Pipeline) processRow(ctx context.Context, row map[string]string, rowNumber int) error {
	rec, err := NormalizeRow(row, rowNumber)
	if err != nil {
		return err
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(rec.QuantityRaw))
	if err != nil {
		return &InvalidAmountError{RowNumber: rowNumber, Field: FieldQuantity, Value: rec.QuantityRaw}
	}
	unitPrice, err := decimal.NewFromString(strings.TrimSpace(rec.UnitPriceRaw))
	if err != nil {
		return &InvalidAmountError{RowNumber: rowNumber, Field: FieldUnitPrice, Value: rec.UnitPriceRaw}
	}

	categoryID, err := p.store.EnsureCategory(ctx, rec.CategoryName,
		"Автоматически добавленная категория: "+rec.CategoryName)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}

	regionID, err := p.store.EnsureRegion(ctx, rec.RegionName)
	if err != nil {
		return fmt.Errorf("resolve region: %w", err)
	}

	platformID, err := p.store.EnsurePlatform(ctx, rec.PlatformName, p.commissionRate)
	if err != nil {
		return fmt.Errorf("resolve platform: %w", err)
	}

	productID, err := p.store.EnsureProduct(ctx, store.EnsureProductParams{
		Name:       rec.ProductName,
		CategoryID: categoryID,
		Price:      unitPrice,
	})
	if err != nil {
		return fmt.Errorf("resolve product: %w", err)
	}

	saleDate := p.now()
	if rec.SaleDate != nil {
		saleDate = *rec.SaleDate
	}

	// total_amount is a frozen snapshot computed here, never recomputed
	// from the dimension rows afterwards.
	if _, err := p.store.InsertSale(ctx, store.InsertSaleParams{
		ProductID:   productID,
		RegionID:    regionID,
		PlatformID:  platformID,
		SaleDate:    saleDate,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalAmount: quantity.Mul(unitPrice),
	}); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

// rowMessage tags storage failures with the row number; normalizer errors
// already carry it.
func rowMessage(rowNumber int, err error) string {
	switch err.(type) {
	case *MissingFieldError, *InvalidAmountError:
		return err.Error()
	default:
		return fmt.Sprintf("Row %d: %v", rowNumber, err)
	}
}
