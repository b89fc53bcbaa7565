package app

import (
	"context"

	"verger/internal/core"
)

// ApplicationService is the single interface all adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ── Products ──────────────────────────────────────────────────────────────

	// CreateProduct registers a new product with an optional opening stock.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error)

	// GetProduct returns a single product with its low-stock flag.
	GetProduct(ctx context.Context, id int64) (*ProductResult, error)

	// ListProducts returns the catalogue ordered by name.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// UpdateProduct edits a product's descriptive fields and alert threshold.
	UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) error

	// DeleteProduct removes a product that has no recorded history.
	DeleteProduct(ctx context.Context, id int64) error

	// ── Stock ─────────────────────────────────────────────────────────────────

	// ApplyMovement records an entry or exit and adjusts the stock level atomically.
	ApplyMovement(ctx context.Context, req MovementRequest) (*MovementResult, error)

	// ListMovements returns recent movements, newest first.
	ListMovements(ctx context.Context, limit int) (*MovementListResult, error)

	// ── Sales ─────────────────────────────────────────────────────────────────

	// RecordSale records a sale: one sale row, one exit movement, one stock
	// decrement, all-or-nothing.
	RecordSale(ctx context.Context, req SaleRequest) (*SaleResult, error)

	// ListSales returns recent sales, newest first.
	ListSales(ctx context.Context, limit int) (*SaleListResult, error)

	// SalesStatistics returns top products, per-channel totals and stock per category.
	SalesStatistics(ctx context.Context) (*core.SalesStatistics, error)

	// ── Clients ───────────────────────────────────────────────────────────────

	// CreateClient registers a client; consent must be explicitly granted.
	CreateClient(ctx context.Context, req ClientRequest) (*ClientResult, error)

	// GetClient returns a client by id, active or not.
	GetClient(ctx context.Context, id int64) (*ClientResult, error)

	// ListActiveClients returns all active clients ordered by name.
	ListActiveClients(ctx context.Context) (*ClientListResult, error)

	// UpdateClient edits an active client's name, email and phone.
	UpdateClient(ctx context.Context, id int64, req ClientRequest) error

	// DeactivateClient deactivates a client and anonymizes their sales.
	DeactivateClient(ctx context.Context, id int64) (*DeactivationResult, error)

	// ClientHistory returns a client's purchase history with summary figures.
	ClientHistory(ctx context.Context, id int64) (*core.PurchaseHistory, error)

	// ClientStatistics returns global registry figures.
	ClientStatistics(ctx context.Context) (*core.ClientStatistics, error)
}
