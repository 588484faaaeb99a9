package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Dimension lookups are atomic insert-if-absent upserts keyed on the unique
// name, so two uploads racing on a brand-new name converge on one row. The
// no-op DO UPDATE makes RETURNING yield the id on both branches. Names are
// matched exactly: no trimming, no case folding.

func (s *Store) EnsureCategory(ctx context.Context, name, description string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure category: %w", err)
	}
	return id, nil
}

func (s *Store) EnsureRegion(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO regions (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure region: %w", err)
	}
	return id, nil
}

// EnsurePlatform creates the platform with the given commission rate when it
// is first sighted. The rate is never reconciled on later sightings.
func (s *Store) EnsurePlatform(ctx context.Context, name string, commissionRate decimal.Decimal) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO platforms (name, commission_rate)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, commissionRate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure platform: %w", err)
	}
	return id, nil
}

type EnsureProductParams struct {
	Name       string
	CategoryID int64
	Price      decimal.Decimal
}

// EnsureProduct is scoped to (name, category_id); the same product name under
// a different category is a distinct row. Price is the stored default taken
// from the first sighting only.
func (s *Store) EnsureProduct(ctx context.Context, arg EnsureProductParams) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO products (name, category_id, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, arg.Name, arg.CategoryID, arg.Price).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure product: %w", err)
	}
	return id, nil
}
