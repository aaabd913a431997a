package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-course/internal/common"
	"github.com/noah-isme/backend-course/internal/pricing"
	"github.com/noah-isme/backend-course/internal/store"
)

type fakePricingStore struct {
	rec     *store.PricingRecord
	inserts int
}

func (f *fakePricingStore) Get(_ context.Context) (store.PricingRecord, error) {
	if f.rec == nil {
		return store.PricingRecord{}, pgx.ErrNoRows
	}
	return *f.rec, nil
}

func (f *fakePricingStore) Update(_ context.Context, basePrice, discountPct decimal.Decimal) error {
	if f.rec == nil {
		return pgx.ErrNoRows
	}
	f.rec = &store.PricingRecord{BasePrice: basePrice, DiscountPct: discountPct, UpdatedAt: time.Now()}
	return nil
}

func (f *fakePricingStore) Seed(_ context.Context, basePrice, discountPct decimal.Decimal) error {
	if f.rec != nil {
		return nil
	}
	f.inserts++
	f.rec = &store.PricingRecord{BasePrice: basePrice, DiscountPct: discountPct, UpdatedAt: time.Now()}
	return nil
}

func seeded(base, pct string) *fakePricingStore {
	return &fakePricingStore{rec: &store.PricingRecord{
		BasePrice:   decimal.RequireFromString(base),
		DiscountPct: decimal.RequireFromString(pct),
		UpdatedAt:   time.Now(),
	}}
}

func TestGetComputesFinalPrice(t *testing.T) {
	t.Parallel()

	svc := &pricing.Service{Store: seeded("199.00", "85.0")}
	p, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "199.00", p.BasePrice)
	require.Equal(t, "85.0", p.DiscountPercentage)
	require.Equal(t, "29.85", p.FinalPrice)
}

func TestGetMissingRecord(t *testing.T) {
	t.Parallel()

	svc := &pricing.Service{Store: &fakePricingStore{}}
	_, err := svc.Get(context.Background())

	var app *common.AppError
	require.ErrorAs(t, err, &app)
	require.Equal(t, common.CodeNotFound, app.Code)
}

func TestUpdateThenGetRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base, pct, final string
	}{
		{"199.00", "85.0", "29.85"},
		{"100", "0", "100.00"},
		{"50", "100", "0.00"},
		{"123.45", "10", "111.11"},
		{"0.01", "50", "0.01"},
	}
	for _, tc := range cases {
		svc := &pricing.Service{Store: seeded("1", "0")}
		p, err := svc.Update(context.Background(), tc.base, tc.pct)
		require.NoError(t, err, "base=%s pct=%s", tc.base, tc.pct)
		require.Equal(t, tc.final, p.FinalPrice, "base=%s pct=%s", tc.base, tc.pct)
	}
}

func TestUpdateRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	svc := &pricing.Service{Store: seeded("199.00", "85.0")}
	for _, tc := range [][2]string{
		{"0", "10"},         // basePrice strictly positive
		{"-5", "10"},        //
		{"10000001", "10"},  // above the basePrice cap
		{"199.00", "100.1"}, // discount capped at 100
		{"199.00", "-1"},    //
		{"abc", "10"},       //
		{"199.00", "x"},     //
	} {
		_, err := svc.Update(context.Background(), tc[0], tc[1])
		var app *common.AppError
		require.ErrorAs(t, err, &app, "base=%s pct=%s", tc[0], tc[1])
		require.Equal(t, common.CodeValidation, app.Code)
	}

	// Inclusive bounds for the discount.
	_, err := svc.Update(context.Background(), "199.00", "0")
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), "199.00", "100")
	require.NoError(t, err)
}

func TestUpdateMissingRecord(t *testing.T) {
	t.Parallel()

	svc := &pricing.Service{Store: &fakePricingStore{}}
	_, err := svc.Update(context.Background(), "199.00", "85.0")

	var app *common.AppError
	require.ErrorAs(t, err, &app)
	require.Equal(t, common.CodeNotFound, app.Code)
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()

	fs := &fakePricingStore{}
	svc := &pricing.Service{Store: fs}

	require.NoError(t, svc.Seed(context.Background()))
	require.NoError(t, svc.Seed(context.Background()))
	require.Equal(t, 1, fs.inserts)

	p, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "199.00", p.BasePrice)
	require.Equal(t, "85.0", p.DiscountPercentage)
	require.Equal(t, "29.85", p.FinalPrice)
}
