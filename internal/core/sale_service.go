package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SaleService records sales. A sale is a superset of an exit movement: the
// sale row, the movement row and the stock decrement land in one transaction
// or not at all.
type SaleService interface {
	RecordSale(ctx context.Context, productID int64, qty decimal.Decimal,
		channel Channel, clientID *int64) (int64, error)
	ListSales(ctx context.Context, limit int) ([]Sale, error)
	Statistics(ctx context.Context) (*SalesStatistics, error)
}

type saleService struct {
	pool  *pgxpool.Pool
	stock StockService
}

// NewSaleService constructs a SaleService that delegates the movement half of
// each sale to the given StockService.
func NewSaleService(pool *pgxpool.Pool, stock StockService) SaleService {
	return &saleService{pool: pool, stock: stock}
}

func (s *saleService) RecordSale(ctx context.Context, productID int64, qty decimal.Decimal,
	channel Channel, clientID *int64) (int64, error) {

	if !ValidChannel(channel) {
		return 0, validationf("invalid sales channel %q: must be kiosk or market", channel)
	}
	if !qty.IsPositive() {
		return 0, validationf("quantity must be positive, got %s", qty)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, storagef(err, "begin sale transaction")
	}
	defer tx.Rollback(ctx)

	// A sale may arrive with a client id the CRM no longer knows, or one that
	// has been deactivated. Resolve against active clients only, inside the
	// transaction, so an anonymized client never regains a sale attribution.
	if clientID != nil {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1 AND active)", *clientID,
		).Scan(&exists); err != nil {
			return 0, storagef(err, "resolve client %d", *clientID)
		}
		if !exists {
			return 0, notFoundf("active client %d not found", *clientID)
		}
	}

	source := fmt.Sprintf("sale (%s)", channel)
	if _, err := s.stock.ApplyMovementTx(ctx, tx, productID, DirectionExit, qty, &source); err != nil {
		return 0, err
	}

	var saleID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (product_id, quantity, channel, client_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		productID, qty, channel, clientID,
	).Scan(&saleID)
	if err != nil {
		return 0, storagef(err, "insert sale for product %d", productID)
	}

	// Sale row, exit movement and stock decrement commit together.
	if err := tx.Commit(ctx); err != nil {
		return 0, storagef(err, "commit sale")
	}
	return saleID, nil
}

func (s *saleService) ListSales(ctx context.Context, limit int) ([]Sale, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT v.id, v.product_id, p.name, v.quantity, v.channel, v.client_id, v.sold_at
		FROM sales v
		JOIN products p ON p.id = v.product_id
		ORDER BY v.sold_at DESC, v.id DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, storagef(err, "query sales")
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var v Sale
		if err := rows.Scan(&v.ID, &v.ProductID, &v.ProductName,
			&v.Quantity, &v.Channel, &v.ClientID, &v.SoldAt); err != nil {
			return nil, storagef(err, "scan sale")
		}
		sales = append(sales, v)
	}
	return sales, rows.Err()
}

// Statistics aggregates top-sold products, sales per channel and current
// stock per category.
func (s *saleService) Statistics(ctx context.Context) (*SalesStatistics, error) {
	stats := &SalesStatistics{}

	rows, err := s.pool.Query(ctx, `
		SELECT p.name, p.unit, SUM(v.quantity) AS total_sold
		FROM sales v
		JOIN products p ON p.id = v.product_id
		GROUP BY p.id, p.name, p.unit
		ORDER BY total_sold DESC
		LIMIT 10`)
	if err != nil {
		return nil, storagef(err, "query top products")
	}
	for rows.Next() {
		var t ProductSalesTotal
		if err := rows.Scan(&t.ProductName, &t.Unit, &t.TotalSold); err != nil {
			rows.Close()
			return nil, storagef(err, "scan top product")
		}
		stats.TopProducts = append(stats.TopProducts, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storagef(err, "iterate top products")
	}

	rows, err = s.pool.Query(ctx, `
		SELECT channel, COUNT(*), SUM(quantity)
		FROM sales
		GROUP BY channel`)
	if err != nil {
		return nil, storagef(err, "query sales by channel")
	}
	for rows.Next() {
		var t ChannelSalesTotal
		if err := rows.Scan(&t.Channel, &t.SaleCount, &t.TotalQuantity); err != nil {
			rows.Close()
			return nil, storagef(err, "scan channel total")
		}
		stats.SalesByChannel = append(stats.SalesByChannel, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storagef(err, "iterate sales by channel")
	}

	rows, err = s.pool.Query(ctx, `
		SELECT category, SUM(stock_level), COUNT(*)
		FROM products
		GROUP BY category`)
	if err != nil {
		return nil, storagef(err, "query stock by category")
	}
	for rows.Next() {
		var t CategoryStockTotal
		if err := rows.Scan(&t.Category, &t.TotalStock, &t.ProductCount); err != nil {
			rows.Close()
			return nil, storagef(err, "scan category total")
		}
		stats.StockByCategory = append(stats.StockByCategory, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storagef(err, "iterate stock by category")
	}

	return stats, nil
}
