package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-course/internal/common"
	"github.com/noah-isme/backend-course/internal/store"
	"github.com/noah-isme/backend-course/internal/validate"
)

// Defaults seeded at startup when the pricing table is empty.
var (
	DefaultBasePrice   = decimal.RequireFromString("199.00")
	DefaultDiscountPct = decimal.RequireFromString("85.0")

	hundred = decimal.NewFromInt(100)
	// maxBasePrice bounds accepted values well inside the NUMERIC(12,2)
	// pricing columns.
	maxBasePrice = decimal.NewFromInt(10_000_000)
)

// Store is the persistence surface the service needs.
type Store interface {
	Get(ctx context.Context) (store.PricingRecord, error)
	Update(ctx context.Context, basePrice, discountPct decimal.Decimal) error
	Seed(ctx context.Context, basePrice, discountPct decimal.Decimal) error
}

// Pricing is the API representation of the singleton pricing record.
// finalPrice is always recomputed, never stored.
type Pricing struct {
	BasePrice          string    `json:"basePrice"`
	DiscountPercentage string    `json:"discountPercentage"`
	FinalPrice         string    `json:"finalPrice"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// Service reads and mutates the singleton pricing record.
type Service struct {
	Store  Store
	Logger zerolog.Logger
}

// FinalPrice applies the discount and rounds to 2 decimal places.
func FinalPrice(basePrice, discountPct decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(hundred.Sub(discountPct)).Div(hundred).Round(2)
}

// Get returns the pricing record with the computed final price.
func (s *Service) Get(ctx context.Context) (Pricing, error) {
	rec, err := s.Current(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pricing{}, common.NotFoundError("no pricing data")
		}
		s.Logger.Error().Err(err).Msg("read pricing")
		return Pricing{}, common.StorageError(err)
	}
	return toAPI(rec), nil
}

// Current returns the raw pricing record for snapshotting. pgx.ErrNoRows
// passes through untranslated so callers can decide how absence maps.
func (s *Service) Current(ctx context.Context) (store.PricingRecord, error) {
	return s.Store.Get(ctx)
}

// Update validates and overwrites the singleton's fields, then reads the
// record back.
func (s *Service) Update(ctx context.Context, basePriceRaw, discountRaw string) (Pricing, error) {
	basePrice, err := validate.NumberInRange("basePrice", basePriceRaw, decimal.Zero, maxBasePrice, true)
	if err != nil {
		return Pricing{}, err
	}
	discountPct, err := validate.NumberInRange("discountPercentage", discountRaw, decimal.Zero, hundred, false)
	if err != nil {
		return Pricing{}, err
	}
	if err := s.Store.Update(ctx, basePrice, discountPct); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Pricing{}, common.NotFoundError("no pricing data")
		}
		s.Logger.Error().Err(err).Msg("update pricing")
		return Pricing{}, common.StorageError(err)
	}
	return s.Get(ctx)
}

// Seed inserts the default pricing row when the table is empty. Idempotent.
func (s *Service) Seed(ctx context.Context) error {
	if err := s.Store.Seed(ctx, DefaultBasePrice, DefaultDiscountPct); err != nil {
		s.Logger.Error().Err(err).Msg("seed pricing")
		return common.StorageError(err)
	}
	return nil
}

func toAPI(rec store.PricingRecord) Pricing {
	return Pricing{
		BasePrice:          rec.BasePrice.StringFixed(2),
		DiscountPercentage: rec.DiscountPct.StringFixed(1),
		FinalPrice:         FinalPrice(rec.BasePrice, rec.DiscountPct).StringFixed(2),
		LastUpdated:        rec.UpdatedAt,
	}
}
