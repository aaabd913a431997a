package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/backend-course/internal/common"
	"github.com/noah-isme/backend-course/internal/gateway"
	"github.com/noah-isme/backend-course/internal/obs"
	"github.com/noah-isme/backend-course/internal/pricing"
	"github.com/noah-isme/backend-course/internal/store"
	"github.com/noah-isme/backend-course/internal/validate"
)

// Store is the persistence surface the workflow needs.
type Store interface {
	Insert(ctx context.Context, rec store.PaymentRecord) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context) ([]store.PaymentRecord, error)
}

// PricingSource supplies the pricing record in effect at submission time.
type PricingSource interface {
	Current(ctx context.Context) (store.PricingRecord, error)
}

// SubmitInput carries the fields of a payment submission. PaymentID is the
// only optional field.
type SubmitInput struct {
	FullName  string
	Phone     string
	Email     string
	PaymentID string
	OrderID   string
	Amount    string
	Status    string
	Date      string
}

// Payment is the API representation of a persisted payment attempt.
type Payment struct {
	ID                 int64  `json:"id"`
	FullName           string `json:"fullName"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	PaymentID          string `json:"paymentId,omitempty"`
	OrderID            string `json:"orderId"`
	Amount             string `json:"amount"`
	BasePrice          string `json:"basePrice"`
	DiscountPercentage string `json:"discountPercentage"`
	Status             string `json:"status"`
	Date               string `json:"date"`
}

// Service orchestrates validation, gateway reconciliation and persistence for
// payment records.
type Service struct {
	Store   Store
	Pricing PricingSource
	Gateway gateway.Client
	// KeySecret signs the checkout signature computed during reconciliation.
	KeySecret string
	Logger    zerolog.Logger
}

// Submit validates a payment submission against the current pricing, optionally
// reconciles it against the gateway's own record, and persists it with a
// snapshot of the pricing in effect. The first failed check aborts with no
// write.
//
// The amount check compares 2-decimal formatted strings, not numeric values
// within an epsilon: an exact-string match is the anti-tampering contract.
// The pricing read and the insert are separate statements; a concurrent
// pricing update between them uses the pre-update price. Accepted gap.
func (s *Service) Submit(ctx context.Context, in SubmitInput) error {
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.Submit")
	defer span.End()

	start := time.Now()
	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.Float64("payment.submit.duration_ms", obs.DurationMillis(time.Since(start))),
			attribute.String("payment.submit.result", result),
		)
		if obs.PaymentSubmitTotal != nil {
			obs.PaymentSubmitTotal.WithLabelValues(result).Inc()
		}
	}()

	fullName := validate.Sanitize(in.FullName)
	email := validate.Sanitize(in.Email)
	paymentID := validate.Sanitize(in.PaymentID)
	orderID := validate.Sanitize(in.OrderID)

	phone, err := validate.Phone(in.Phone)
	if err != nil {
		result = "invalid_phone"
		return err
	}
	if err := validate.Email(email); err != nil {
		result = "invalid_email"
		return err
	}
	status, err := validate.Status(in.Status)
	if err != nil {
		result = "invalid_status"
		return err
	}

	rec, err := s.Pricing.Current(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			result = "no_pricing"
			return common.ValidationError("no pricing data")
		}
		s.Logger.Error().Err(err).Msg("load pricing for submission")
		return common.StorageError(err)
	}

	expected := pricing.FinalPrice(rec.BasePrice, rec.DiscountPct).StringFixed(2)
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil {
		result = "invalid_amount"
		return common.ValidationError("invalid amount")
	}
	received := amount.StringFixed(2)
	if expected != received {
		result = "amount_mismatch"
		return common.ValidationError(fmt.Sprintf("amount mismatch: expected %s, received %s", expected, received))
	}

	if paymentID != "" && status == validate.StatusSuccess {
		if err := s.reconcile(ctx, paymentID, orderID); err != nil {
			result = "verification_failed"
			return err
		}
	}

	if _, err := s.Store.Insert(ctx, store.PaymentRecord{
		FullName:    fullName,
		Phone:       phone,
		Email:       email,
		PaymentID:   paymentID,
		OrderID:     orderID,
		Amount:      strings.TrimSpace(in.Amount),
		BasePrice:   rec.BasePrice,
		DiscountPct: rec.DiscountPct,
		Status:      status,
		Date:        strings.TrimSpace(in.Date),
	}); err != nil {
		s.Logger.Error().Err(err).Msg("insert payment")
		return common.StorageError(err)
	}
	result = "success"
	return nil
}

// reconcile cross-checks a claimed successful payment against the gateway's
// authoritative record: the order id must match and the payment must be
// captured.
func (s *Service) reconcile(ctx context.Context, paymentID, orderID string) error {
	p, err := s.Gateway.FetchPayment(ctx, paymentID)
	outcome := "ok"
	if err != nil || p.OrderID != orderID || !gateway.Captured(p.Status) {
		outcome = "mismatch"
	}
	if obs.GatewayReconcileTotal != nil {
		obs.GatewayReconcileTotal.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		s.Logger.Warn().Err(err).Str("payment_id", paymentID).Msg("gateway payment lookup failed")
		return common.ValidationError("payment verification failed")
	}
	if p.OrderID != orderID || !gateway.Captured(p.Status) {
		s.Logger.Warn().
			Str("payment_id", paymentID).
			Str("gateway_order_id", p.OrderID).
			Str("gateway_status", p.Status).
			Msg("gateway record does not match submission")
		return common.ValidationError("payment verification failed")
	}

	// Computed for parity with the checkout flow but not enforced: the
	// client-supplied signature that would be its comparison target is not
	// part of this API.
	sig := gateway.Signature(orderID, paymentID, s.KeySecret)
	s.Logger.Debug().Str("signature", sig).Msg("computed checkout signature")
	return nil
}

// UpdateStatus mutates the status of an existing payment record.
func (s *Service) UpdateStatus(ctx context.Context, id int64, rawStatus string) error {
	status, err := validate.Status(rawStatus)
	if err != nil {
		if obs.PaymentStatusUpdateTotal != nil {
			obs.PaymentStatusUpdateTotal.WithLabelValues("invalid_status").Inc()
		}
		return err
	}
	if err := s.Store.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if obs.PaymentStatusUpdateTotal != nil {
				obs.PaymentStatusUpdateTotal.WithLabelValues("not_found").Inc()
			}
			return common.NotFoundError("payment not found")
		}
		s.Logger.Error().Err(err).Int64("payment_id", id).Msg("update payment status")
		return common.StorageError(err)
	}
	if obs.PaymentStatusUpdateTotal != nil {
		obs.PaymentStatusUpdateTotal.WithLabelValues("success").Inc()
	}
	return nil
}

// List returns every payment record, newest first.
func (s *Service) List(ctx context.Context) ([]Payment, error) {
	records, err := s.Store.List(ctx)
	if err != nil {
		s.Logger.Error().Err(err).Msg("list payments")
		return nil, common.StorageError(err)
	}
	payments := make([]Payment, 0, len(records))
	for _, rec := range records {
		payments = append(payments, toAPI(rec))
	}
	return payments, nil
}

func toAPI(rec store.PaymentRecord) Payment {
	return Payment{
		ID:                 rec.ID,
		FullName:           rec.FullName,
		Phone:              rec.Phone,
		Email:              rec.Email,
		PaymentID:          rec.PaymentID,
		OrderID:            rec.OrderID,
		Amount:             rec.Amount,
		BasePrice:          rec.BasePrice.StringFixed(2),
		DiscountPercentage: rec.DiscountPct.StringFixed(1),
		Status:             rec.Status,
		Date:               rec.Date,
	}
}
