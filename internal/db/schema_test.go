package db_test

import (
	"context"
	"os"
	"testing"

	"verger/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupPool(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return pool, ctx
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	pool, ctx := setupPool(t)
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("first EnsureSchema failed: %v", err)
	}

	_, err := pool.Exec(ctx, "TRUNCATE TABLE stock_movements, sales, products, clients RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	var productID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO products (name, category, unit, stock_level, alert_threshold)
		VALUES ('Gala Apples', 'fruit', 'weight', 50, 10)
		RETURNING id`).Scan(&productID)
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	// Running the bootstrap again must not disturb existing data.
	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	var n int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		t.Fatalf("count products: %v", err)
	}
	if n != 1 {
		t.Errorf("expected seeded product to survive re-bootstrap, got %d rows", n)
	}
}

func TestEnsureSchema_RestoresClientColumn(t *testing.T) {
	pool, ctx := setupPool(t)
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// Simulate a database created before the CRM tier existed.
	if _, err := pool.Exec(ctx, "ALTER TABLE sales DROP COLUMN IF EXISTS client_id"); err != nil {
		t.Fatalf("Failed to drop client_id: %v", err)
	}

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema after column drop failed: %v", err)
	}

	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'sales' AND column_name = 'client_id'
		)`).Scan(&exists)
	if err != nil {
		t.Fatalf("column check failed: %v", err)
	}
	if !exists {
		t.Error("expected sales.client_id to be re-added by EnsureSchema")
	}
}
