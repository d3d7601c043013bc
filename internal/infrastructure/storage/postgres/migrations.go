package postgres

import (
	"context"
	"fmt"

	"pharmastock/pkg/logger"
)

// schema statements are applied in order on startup. They are idempotent so
// a restart against an already-provisioned database is a no-op.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS medicines (
		id            UUID PRIMARY KEY,
		version       INTEGER      NOT NULL DEFAULT 1,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
		name          TEXT         NOT NULL,
		description   TEXT,
		manufacturer  TEXT,
		enabled       BOOLEAN      NOT NULL DEFAULT TRUE
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS medicines_name_lower_uniq
		ON medicines (lower(name))`,

	`CREATE TABLE IF NOT EXISTS batches (
		id                  UUID PRIMARY KEY,
		version             INTEGER        NOT NULL DEFAULT 1,
		created_at          TIMESTAMPTZ    NOT NULL DEFAULT now(),
		medicine_id         UUID           NOT NULL REFERENCES medicines (id),
		expiration_date     DATE           NOT NULL,
		purchased_quantity  INTEGER        NOT NULL CHECK (purchased_quantity > 0),
		available_quantity  INTEGER        NOT NULL CHECK (available_quantity >= 0),
		unit_price          NUMERIC(12, 4) NOT NULL CHECK (unit_price >= 0)
	)`,

	`CREATE INDEX IF NOT EXISTS batches_medicine_expiration_idx
		ON batches (medicine_id, expiration_date, id)`,

	`CREATE TABLE IF NOT EXISTS sales (
		id                 UUID PRIMARY KEY,
		version            INTEGER        NOT NULL DEFAULT 1,
		created_at         TIMESTAMPTZ    NOT NULL DEFAULT now(),
		customer_name      TEXT,
		payment_mode       TEXT           NOT NULL,
		payment_reference  TEXT,
		total_amount       NUMERIC(14, 4) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sale_lines (
		line_id           UUID PRIMARY KEY,
		sale_id           UUID           NOT NULL REFERENCES sales (id),
		line_no           INTEGER        NOT NULL,
		medicine_id       UUID           NOT NULL REFERENCES medicines (id),
		batch_id          UUID           NOT NULL REFERENCES batches (id),
		quantity          INTEGER        NOT NULL CHECK (quantity > 0),
		unit_price        NUMERIC(12, 4) NOT NULL,
		expiration_date   DATE           NOT NULL,
		discount_percent  INTEGER        NOT NULL DEFAULT 0,
		amount            NUMERIC(14, 4) NOT NULL,
		UNIQUE (sale_id, line_no)
	)`,

	`CREATE INDEX IF NOT EXISTS sale_lines_batch_idx
		ON sale_lines (batch_id)`,
}

// Migrate applies the schema against the pool.
func Migrate(ctx context.Context, pool *Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return mapConnectionError(fmt.Errorf("apply schema statement %d: %w", i+1, err))
		}
	}
	logger.Info(ctx, "database schema up to date", "statements", len(schema))
	return nil
}
