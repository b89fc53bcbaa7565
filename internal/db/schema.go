package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the four ledger tables and their indexes. IF NOT EXISTS keeps the
// bootstrap idempotent: running it against an already-initialized database
// changes nothing and preserves every row.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id              BIGSERIAL PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		category        TEXT NOT NULL CHECK (category IN ('fruit', 'vegetable', 'processed')),
		unit            TEXT NOT NULL CHECK (unit IN ('weight', 'count')),
		stock_level     NUMERIC NOT NULL DEFAULT 0 CHECK (stock_level >= 0),
		alert_threshold NUMERIC NOT NULL DEFAULT 10,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id          BIGSERIAL PRIMARY KEY,
		product_id  BIGINT NOT NULL REFERENCES products(id),
		direction   TEXT NOT NULL CHECK (direction IN ('entry', 'exit')),
		quantity    NUMERIC NOT NULL CHECK (quantity > 0),
		source      TEXT,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id         BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity   NUMERIC NOT NULL CHECK (quantity > 0),
		channel    TEXT NOT NULL CHECK (channel IN ('kiosk', 'market')),
		sold_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT,
		phone      TEXT,
		consent    BOOLEAN NOT NULL DEFAULT false,
		active     BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// Names are unique among active clients only; deactivated clients release
	// their name for reuse.
	`CREATE UNIQUE INDEX IF NOT EXISTS clients_active_name_key
		ON clients (name) WHERE active`,
}

// EnsureSchema creates the tables on first use and evolves a pre-existing
// sales table in place: installations that predate the client registry have
// sales without a client_id column, which is added here without touching
// existing rows. Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	var hasClientID bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'sales' AND column_name = 'client_id'
		)`).Scan(&hasClientID)
	if err != nil {
		return fmt.Errorf("inspect sales table: %w", err)
	}

	if !hasClientID {
		_, err = pool.Exec(ctx, `
			ALTER TABLE sales
			ADD COLUMN client_id BIGINT REFERENCES clients(id) ON DELETE SET NULL`)
		if err != nil {
			return fmt.Errorf("add sales.client_id: %w", err)
		}
	}

	return nil
}
