package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesboard-platform/api/internal/store"
)

type fakeStore struct {
	categories map[string]int64
	regions    map[string]int64
	platforms  map[string]int64
	products   map[string]int64
	sales      []store.InsertSaleParams
	nextID     int64
	failWith   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: map[string]int64{},
		regions:    map[string]int64{},
		platforms:  map[string]int64{},
		products:   map[string]int64{},
	}
}

func (f *fakeStore) ensure(m map[string]int64, key string) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	if id, ok := m[key]; ok {
		return id, nil
	}
	f.nextID++
	m[key] = f.nextID
	return f.nextID, nil
}

func (f *fakeStore) EnsureCategory(_ context.Context, name, _ string) (int64, error) {
	return f.ensure(f.categories, name)
}

func (f *fakeStore) EnsureRegion(_ context.Context, name string) (int64, error) {
	return f.ensure(f.regions, name)
}

func (f *fakeStore) EnsurePlatform(_ context.Context, name string, _ decimal.Decimal) (int64, error) {
	return f.ensure(f.platforms, name)
}

func (f *fakeStore) EnsureProduct(_ context.Context, arg store.EnsureProductParams) (int64, error) {
	return f.ensure(f.products, fmt.Sprintf("%s|%d", arg.Name, arg.CategoryID))
}

func (f *fakeStore) InsertSale(_ context.Context, arg store.InsertSaleParams) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.sales = append(f.sales, arg)
	return int64(len(f.sales)), nil
}

func validRow(product string) map[string]string {
	return map[string]string{
		"Товар":           product,
		"Категория":       "Tools",
		"Регион":          "North",
		"Площадка":        "ShopX",
		"Количество":      "3",
		"Цена за единицу": "10",
	}
}

func newTestPipeline(s Store, now time.Time) *Pipeline {
	p := New(s, decimal.NewFromInt(10))
	p.now = func() time.Time { return now }
	return p
}

func TestRunComputesFrozenTotalAmount(t *testing.T) {
	fake := newFakeStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := newTestPipeline(fake, now)

	report, err := p.Run(context.Background(), []map[string]string{validRow("Widget")})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Processed != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(fake.sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(fake.sales))
	}

	sale := fake.sales[0]
	if !sale.Quantity.Equal(decimal.NewFromInt(3)) || !sale.UnitPrice.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected amounts: %+v", sale)
	}
	if !sale.TotalAmount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected total 30, got %s", sale.TotalAmount)
	}
	if !sale.SaleDate.Equal(now) {
		t.Fatalf("expected ingestion-time sale date, got %v", sale.SaleDate)
	}
}

func TestRunExactDecimalMultiplication(t *testing.T) {
	fake := newFakeStore()
	p := newTestPipeline(fake, time.Now())

	row := validRow("Widget")
	row["Количество"] = "0.1"
	row["Цена за единицу"] = "0.2"

	if _, err := p.Run(context.Background(), []map[string]string{row}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := decimal.RequireFromString("0.02")
	if !fake.sales[0].TotalAmount.Equal(want) {
		t.Fatalf("expected exact 0.02, got %s", fake.sales[0].TotalAmount)
	}
}

func TestRunReusesDimensionsWithinBatch(t *testing.T) {
	fake := newFakeStore()
	p := newTestPipeline(fake, time.Now())

	rows := []map[string]string{validRow("Widget"), validRow("Gadget")}
	report, err := p.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Processed != 2 {
		t.Fatalf("expected 2 processed, got %d", report.Processed)
	}
	if len(fake.categories) != 1 {
		t.Fatalf("expected one category row, got %d", len(fake.categories))
	}
	categoryID := fake.categories["Tools"]
	for _, sale := range fake.sales {
		productKey := ""
		for key, id := range fake.products {
			if id == sale.ProductID {
				productKey = key
			}
		}
		if !strings.HasSuffix(productKey, fmt.Sprintf("|%d", categoryID)) {
			t.Fatalf("sale references product outside shared category: %q", productKey)
		}
	}
}

func TestRunIsolatesRowFailures(t *testing.T) {
	fake := newFakeStore()
	p := newTestPipeline(fake, time.Now())

	badRow := validRow("Broken")
	delete(badRow, "Регион")
	rows := []map[string]string{validRow("A"), badRow, validRow("B")}

	report, err := p.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Processed != 2 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(fake.sales) != 2 {
		t.Fatalf("expected 2 persisted facts, got %d", len(fake.sales))
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected 1 error message, got %d", len(report.Errors))
	}
	// Data row 2 is spreadsheet row 3, matching what the user sees.
	if !strings.HasPrefix(report.Errors[0], "Row 3:") {
		t.Fatalf("error not tagged with spreadsheet row: %q", report.Errors[0])
	}
}

func TestRunInvalidQuantitySkipsRowOnly(t *testing.T) {
	fake := newFakeStore()
	p := newTestPipeline(fake, time.Now())

	badRow := validRow("Broken")
	badRow["Количество"] = "abc"
	rows := []map[string]string{badRow, validRow("Fine")}

	report, err := p.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Processed != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(fake.sales) != 1 {
		t.Fatalf("expected only the valid fact row, got %d", len(fake.sales))
	}
	if !strings.Contains(report.Errors[0], "quantity") {
		t.Fatalf("expected amount error, got %q", report.Errors[0])
	}
}

func TestRunRowSaleDateOverridesClock(t *testing.T) {
	fake := newFakeStore()
	p := newTestPipeline(fake, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	row := validRow("Widget")
	row["Дата продажи"] = "2024-03-15"
	if _, err := p.Run(context.Background(), []map[string]string{row}); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !fake.sales[0].SaleDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, fake.sales[0].SaleDate)
	}
}

func TestRunStorageFailureIsRowScoped(t *testing.T) {
	fake := newFakeStore()
	p := newTestPipeline(fake, time.Now())

	// First row succeeds, then the backend starts failing.
	report, err := p.Run(context.Background(), []map[string]string{validRow("A")})
	if err != nil || report.Processed != 1 {
		t.Fatalf("warmup failed: %+v %v", report, err)
	}

	fake.failWith = errors.New("connection reset")
	report, err = p.Run(context.Background(), []map[string]string{validRow("B"), validRow("C")})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Processed != 0 || report.Failed != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for i, message := range report.Errors {
		if !strings.HasPrefix(message, fmt.Sprintf("Row %d:", i+2)) {
			t.Fatalf("error %d not row-tagged: %q", i, message)
		}
	}
}

func TestRunReportsAllErrors(t *testing.T) {
	fake := newFakeStore()
	p := newTestPipeline(fake, time.Now())

	rows := make([]map[string]string, 0, 15)
	for i := 0; i < 15; i++ {
		bad := validRow("Broken")
		delete(bad, "Площадка")
		rows = append(rows, bad)
	}

	report, err := p.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// The pipeline reports everything; truncation to 10 happens at the
	// HTTP layer.
	if report.Failed != 15 || len(report.Errors) != 15 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
