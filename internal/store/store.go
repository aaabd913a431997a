// Package store contains the pgx-backed repositories for the two persisted
// tables: the singleton pricing row and the payments ledger.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repositories rely on.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS pricing (
	id           SMALLINT PRIMARY KEY DEFAULT 1,
	base_price   NUMERIC(12,2) NOT NULL,
	discount_pct NUMERIC(5,1)  NOT NULL,
	updated_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS payments (
	id           BIGSERIAL PRIMARY KEY,
	full_name    TEXT          NOT NULL,
	phone        TEXT          NOT NULL,
	email        TEXT          NOT NULL,
	payment_id   TEXT          NOT NULL DEFAULT '',
	order_id     TEXT          NOT NULL,
	amount       TEXT          NOT NULL,
	base_price   NUMERIC(12,2) NOT NULL,
	discount_pct NUMERIC(5,1)  NOT NULL,
	status       TEXT          NOT NULL,
	date         TEXT          NOT NULL,
	created_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the pricing and payments tables when absent.
func EnsureSchema(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, schema)
	return err
}
