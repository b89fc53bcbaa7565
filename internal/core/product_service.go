package core

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductService manages the product catalogue. Stock levels are owned by the
// StockService; this service never touches stock_level outside of the initial
// registration value.
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

// ProductInput carries the caller-editable product fields.
type ProductInput struct {
	Name           string
	Category       Category
	Unit           Unit
	InitialStock   decimal.Decimal
	AlertThreshold decimal.Decimal
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("product name is required")
	}
	if !ValidCategory(in.Category) {
		return validationf("invalid category %q: must be fruit, vegetable or processed", in.Category)
	}
	if !ValidUnit(in.Unit) {
		return validationf("invalid unit %q: must be weight or count", in.Unit)
	}
	if in.InitialStock.IsNegative() {
		return validationf("initial stock cannot be negative, got %s", in.InitialStock)
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	threshold := input.AlertThreshold
	if threshold.IsZero() {
		threshold = decimal.NewFromInt(10)
	}

	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, category, unit, stock_level, alert_threshold)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, category, unit, stock_level, alert_threshold, created_at`,
		strings.TrimSpace(input.Name), input.Category, input.Unit, input.InitialStock, threshold,
	).Scan(&p.ID, &p.Name, &p.Category, &p.Unit, &p.StockLevel, &p.AlertThreshold, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, conflictf("a product named %q already exists", input.Name)
		}
		return nil, storagef(err, "create product %q", input.Name)
	}
	p.LowStock = p.StockLevel.LessThan(p.AlertThreshold)
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, category, unit, stock_level, alert_threshold,
		       stock_level < alert_threshold, created_at
		FROM products
		WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.Unit, &p.StockLevel, &p.AlertThreshold, &p.LowStock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("product %d not found", id)
		}
		return nil, storagef(err, "fetch product %d", id)
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, unit, stock_level, alert_threshold,
		       stock_level < alert_threshold, created_at
		FROM products
		ORDER BY name`)
	if err != nil {
		return nil, storagef(err, "query products")
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Unit,
			&p.StockLevel, &p.AlertThreshold, &p.LowStock, &p.CreatedAt); err != nil {
			return nil, storagef(err, "scan product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct edits name, category, unit and alert threshold. The stock
// level is out of reach here: it changes only through movements.
func (s *productService) UpdateProduct(ctx context.Context, id int64, input ProductInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, category = $2, unit = $3, alert_threshold = $4
		WHERE id = $5`,
		strings.TrimSpace(input.Name), input.Category, input.Unit, input.AlertThreshold, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return conflictf("a product named %q already exists", input.Name)
		}
		return storagef(err, "update product %d", id)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("product %d not found", id)
	}
	return nil
}

// DeleteProduct removes a product permanently. Products referenced by
// movements or sales cannot be removed; history wins.
func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return conflictf("product %d has recorded movements or sales and cannot be deleted", id)
		}
		return storagef(err, "delete product %d", id)
	}
	if tag.RowsAffected() == 0 {
		return notFoundf("product %d not found", id)
	}
	return nil
}
