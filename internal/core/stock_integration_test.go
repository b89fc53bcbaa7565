package core_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"verger/internal/core"
	"verger/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	_, err = pool.Exec(ctx, "TRUNCATE TABLE stock_movements, sales, products, clients RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool, ctx
}

// seedProduct inserts a product with the given opening stock and returns its id.
func seedProduct(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string, stock int64) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO products (name, category, unit, stock_level, alert_threshold)
		VALUES ($1, 'fruit', 'weight', $2, 10)
		RETURNING id`,
		name, stock,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed product %s: %v", name, err)
	}
	return id
}

func productStock(t *testing.T, ctx context.Context, pool *pgxpool.Pool, id int64) decimal.Decimal {
	t.Helper()
	var stock decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT stock_level FROM products WHERE id = $1", id).Scan(&stock); err != nil {
		t.Fatalf("Failed to read stock for product %d: %v", id, err)
	}
	return stock
}

func countRows(t *testing.T, ctx context.Context, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestStock_EntryIncreasesLevel(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewStockService(pool)

	productID := seedProduct(t, ctx, pool, "Gala Apples", 100)

	source := "orchard harvest"
	movementID, err := svc.ApplyMovement(ctx, productID, core.DirectionEntry, decimal.NewFromInt(50), &source)
	if err != nil {
		t.Fatalf("ApplyMovement entry failed: %v", err)
	}
	if movementID == 0 {
		t.Error("expected a movement id")
	}

	if stock := productStock(t, ctx, pool, productID); !stock.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected stock 150, got %s", stock)
	}

	var direction string
	var qty decimal.Decimal
	err = pool.QueryRow(ctx,
		"SELECT direction, quantity FROM stock_movements WHERE id = $1", movementID,
	).Scan(&direction, &qty)
	if err != nil {
		t.Fatalf("movement row missing: %v", err)
	}
	if direction != "entry" || !qty.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected entry/50, got %s/%s", direction, qty)
	}
}

func TestStock_ExitDecrementsExactly(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewStockService(pool)

	productID := seedProduct(t, ctx, pool, "Carrots", 95)

	before := countRows(t, ctx, pool, "stock_movements")
	_, err := svc.ApplyMovement(ctx, productID, core.DirectionExit, decimal.NewFromInt(25), nil)
	if err != nil {
		t.Fatalf("ApplyMovement exit failed: %v", err)
	}

	if stock := productStock(t, ctx, pool, productID); !stock.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected stock 70, got %s", stock)
	}
	if after := countRows(t, ctx, pool, "stock_movements"); after != before+1 {
		t.Errorf("expected exactly one new movement row, got %d", after-before)
	}
}

func TestStock_InsufficientExitHasNoPartialEffect(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewStockService(pool)

	productID := seedProduct(t, ctx, pool, "Apple Juice", 8)

	movementsBefore := countRows(t, ctx, pool, "stock_movements")
	_, err := svc.ApplyMovement(ctx, productID, core.DirectionExit, decimal.NewFromInt(9), nil)
	if err == nil {
		t.Fatal("expected insufficient stock error, got nil")
	}
	if kind := core.KindOf(err); kind != core.KindInsufficientStock {
		t.Errorf("expected INSUFFICIENT_STOCK, got %s (%v)", kind, err)
	}

	if stock := productStock(t, ctx, pool, productID); !stock.Equal(decimal.NewFromInt(8)) {
		t.Errorf("stock must be untouched after a failed exit, got %s", stock)
	}
	if after := countRows(t, ctx, pool, "stock_movements"); after != movementsBefore {
		t.Errorf("movement table must be untouched after a failed exit, got %d new rows", after-movementsBefore)
	}
}

func TestStock_UnknownProduct(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewStockService(pool)

	_, err := svc.ApplyMovement(ctx, 99999, core.DirectionEntry, decimal.NewFromInt(1), nil)
	if kind := core.KindOf(err); kind != core.KindNotFound {
		t.Errorf("expected NOT_FOUND, got %s (%v)", kind, err)
	}
}

func TestStock_InvalidQuantity(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewStockService(pool)

	productID := seedProduct(t, ctx, pool, "Tomatoes", 60)

	for _, qty := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.ApplyMovement(ctx, productID, core.DirectionExit, qty, nil)
		if kind := core.KindOf(err); kind != core.KindValidation {
			t.Errorf("qty %s: expected VALIDATION, got %s (%v)", qty, kind, err)
		}
	}
}

// TestStock_ConcurrentExits races two exits where only one fits the remaining
// stock. The row lock serializes them: exactly one succeeds and the final
// level reflects exactly one decrement.
func TestStock_ConcurrentExits(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewStockService(pool)

	productID := seedProduct(t, ctx, pool, "Williams Pears", 10)
	qty := decimal.NewFromInt(8)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.ApplyMovement(ctx, productID, core.DirectionExit, qty, nil)
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case core.KindOf(err) == core.KindInsufficientStock:
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one success and one insufficient-stock failure, got %d/%d",
			succeeded, insufficient)
	}

	if stock := productStock(t, ctx, pool, productID); !stock.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected final stock 2 (10 - 8, no lost update), got %s", stock)
	}
}
