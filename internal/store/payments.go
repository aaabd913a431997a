package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PaymentRecord is one persisted payment attempt. BasePrice and DiscountPct
// snapshot the pricing in effect at submission time so historical amounts stay
// auditable after price changes.
type PaymentRecord struct {
	ID          int64
	FullName    string
	Phone       string
	Email       string
	PaymentID   string
	OrderID     string
	Amount      string
	BasePrice   decimal.Decimal
	DiscountPct decimal.Decimal
	Status      string
	Date        string
	CreatedAt   time.Time
}

// PaymentStore persists payment attempts.
type PaymentStore struct {
	DB DBTX
}

// Insert writes a payment record and returns the store-assigned id.
func (s *PaymentStore) Insert(ctx context.Context, rec PaymentRecord) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx,
		`INSERT INTO payments (full_name, phone, email, payment_id, order_id, amount, base_price, discount_pct, status, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		rec.FullName, rec.Phone, rec.Email, rec.PaymentID, rec.OrderID, rec.Amount,
		rec.BasePrice.String(), rec.DiscountPct.String(), rec.Status, rec.Date,
	).Scan(&id)
	return id, err
}

// UpdateStatus mutates the status of a payment record. pgx.ErrNoRows is
// returned when no row matches the id.
func (s *PaymentStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := s.DB.Exec(ctx, `UPDATE payments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List returns every payment record, newest first. Ties on date fall back to
// descending id, which preserves insertion order. The API is unpaginated, so
// this is always a full scan.
func (s *PaymentStore) List(ctx context.Context) ([]PaymentRecord, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT id, full_name, phone, email, payment_id, order_id, amount,
		        base_price::text, discount_pct::text, status, date, created_at
		 FROM payments
		 ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PaymentRecord
	for rows.Next() {
		var (
			rec       PaymentRecord
			base, pct string
		)
		if err := rows.Scan(
			&rec.ID, &rec.FullName, &rec.Phone, &rec.Email, &rec.PaymentID, &rec.OrderID,
			&rec.Amount, &base, &pct, &rec.Status, &rec.Date, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if rec.BasePrice, err = decimal.NewFromString(base); err != nil {
			return nil, err
		}
		if rec.DiscountPct, err = decimal.NewFromString(pct); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
