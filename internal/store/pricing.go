package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PricingRecord is the singleton pricing configuration row.
type PricingRecord struct {
	BasePrice   decimal.Decimal
	DiscountPct decimal.Decimal
	UpdatedAt   time.Time
}

// PricingStore persists the singleton pricing row.
type PricingStore struct {
	DB DBTX
}

// Get returns the pricing row. pgx.ErrNoRows is returned when the table is empty.
func (s *PricingStore) Get(ctx context.Context) (PricingRecord, error) {
	var (
		base, pct string
		updatedAt time.Time
	)
	row := s.DB.QueryRow(ctx, `SELECT base_price::text, discount_pct::text, updated_at FROM pricing LIMIT 1`)
	if err := row.Scan(&base, &pct, &updatedAt); err != nil {
		return PricingRecord{}, err
	}
	return parsePricing(base, pct, updatedAt)
}

// Update overwrites the singleton's fields and timestamp. pgx.ErrNoRows is
// returned when the row is missing.
func (s *PricingStore) Update(ctx context.Context, basePrice, discountPct decimal.Decimal) error {
	tag, err := s.DB.Exec(ctx,
		`UPDATE pricing SET base_price = $1, discount_pct = $2, updated_at = now()`,
		basePrice.String(), discountPct.String(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Seed inserts the default pricing row when the table is empty. The row-count
// check makes repeated invocations idempotent.
func (s *PricingStore) Seed(ctx context.Context, basePrice, discountPct decimal.Decimal) error {
	var count int64
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM pricing`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.DB.Exec(ctx,
		`INSERT INTO pricing (base_price, discount_pct) VALUES ($1, $2)`,
		basePrice.String(), discountPct.String(),
	)
	return err
}

func parsePricing(base, pct string, updatedAt time.Time) (PricingRecord, error) {
	basePrice, err := decimal.NewFromString(base)
	if err != nil {
		return PricingRecord{}, fmt.Errorf("parse base_price: %w", err)
	}
	discountPct, err := decimal.NewFromString(pct)
	if err != nil {
		return PricingRecord{}, fmt.Errorf("parse discount_pct: %w", err)
	}
	return PricingRecord{BasePrice: basePrice, DiscountPct: discountPct, UpdatedAt: updatedAt}, nil
}
