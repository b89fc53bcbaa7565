package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockService performs the atomic "apply movement" operation shared by direct
// stock adjustments and sale recording. Every mutation inserts one immutable
// movement row and updates the product's stock level in the same transaction.
type StockService interface {
	// ApplyMovement records an entry or exit for a product and returns the new
	// movement's ID. For exits the stock check and the decrement observe the
	// same row version: the product row is locked for the whole unit.
	ApplyMovement(ctx context.Context, productID int64, direction Direction,
		qty decimal.Decimal, source *string) (int64, error)

	// ApplyMovementTx is the TX-scoped half of ApplyMovement, for callers that
	// need the movement atomic with their own writes (sale recording).
	ApplyMovementTx(ctx context.Context, tx pgx.Tx, productID int64,
		direction Direction, qty decimal.Decimal, source *string) (int64, error)

	// ListMovements returns the most recent movements joined with product
	// names, newest first.
	ListMovements(ctx context.Context, limit int) ([]Movement, error)
}

type stockService struct {
	pool *pgxpool.Pool
}

// NewStockService constructs a StockService backed by PostgreSQL.
func NewStockService(pool *pgxpool.Pool) StockService {
	return &stockService{pool: pool}
}

func (s *stockService) ApplyMovement(ctx context.Context, productID int64, direction Direction,
	qty decimal.Decimal, source *string) (int64, error) {

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, storagef(err, "begin movement transaction")
	}
	defer tx.Rollback(ctx)

	movementID, err := s.ApplyMovementTx(ctx, tx, productID, direction, qty, source)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, storagef(err, "commit movement")
	}
	return movementID, nil
}

// ApplyMovementTx validates, locks the product row, inserts the movement and
// adjusts the stock level, all within the caller's transaction. The caller
// commits; on error the caller's rollback discards every write.
func (s *stockService) ApplyMovementTx(ctx context.Context, tx pgx.Tx, productID int64,
	direction Direction, qty decimal.Decimal, source *string) (int64, error) {

	if direction != DirectionEntry && direction != DirectionExit {
		return 0, validationf("invalid direction %q: must be entry or exit", direction)
	}
	if !qty.IsPositive() {
		return 0, validationf("quantity must be positive, got %s", qty)
	}

	// Lock the product row so the stock check and the update see one value.
	var name string
	var stock decimal.Decimal
	err := tx.QueryRow(ctx,
		"SELECT name, stock_level FROM products WHERE id = $1 FOR UPDATE",
		productID,
	).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFoundf("product %d not found", productID)
		}
		return 0, storagef(err, "lock product %d", productID)
	}

	delta := qty
	if direction == DirectionExit {
		if stock.LessThan(qty) {
			return 0, insufficientf("insufficient stock for %s: available %s, requested %s",
				name, stock, qty)
		}
		delta = qty.Neg()
	}

	var movementID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_movements (product_id, direction, quantity, source)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		productID, direction, qty, source,
	).Scan(&movementID)
	if err != nil {
		return 0, storagef(err, "insert movement for product %d", productID)
	}

	_, err = tx.Exec(ctx,
		"UPDATE products SET stock_level = stock_level + $1 WHERE id = $2",
		delta, productID)
	if err != nil {
		return 0, storagef(err, "update stock level for product %d", productID)
	}

	return movementID, nil
}

func (s *stockService) ListMovements(ctx context.Context, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.product_id, p.name, m.direction, m.quantity, m.source, m.occurred_at
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		ORDER BY m.occurred_at DESC, m.id DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, storagef(err, "query movements")
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName,
			&m.Direction, &m.Quantity, &m.Source, &m.OccurredAt); err != nil {
			return nil, storagef(err, "scan movement")
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
