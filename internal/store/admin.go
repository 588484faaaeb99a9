package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ReportingViews lists the materialized views mirroring the reporting
// queries, in refresh order.
var ReportingViews = []string{
	"revenue_by_category",
	"sales_by_region",
	"platform_performance",
	"monthly_trends",
}

// ErrViewMissing reports that a reporting view does not exist. Refreshing is
// best-effort housekeeping, so callers log and move on.
var ErrViewMissing = errors.New("reporting view does not exist")

// RefreshView refreshes one reporting view by name. Only names from
// ReportingViews are accepted; identifiers cannot be parameterized.
func (s *Store) RefreshView(ctx context.Context, name string) error {
	known := false
	for _, view := range ReportingViews {
		if view == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown reporting view %q", name)
	}

	if _, err := s.db.Exec(ctx, "REFRESH MATERIALIZED VIEW "+name); err != nil {
		var pgErr *pgconn.PgError
		// 42P01: undefined_table. The views are optional by contract.
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
			return fmt.Errorf("%s: %w", name, ErrViewMissing)
		}
		return fmt.Errorf("refresh %s: %w", name, err)
	}
	return nil
}

// ClearAll removes every fact and dimension row and restarts the identity
// sequences, atomically. The audit trail is kept.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `
		TRUNCATE sales, products, categories, regions, platforms RESTART IDENTITY
	`); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}
