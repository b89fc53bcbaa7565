package app

import (
	"github.com/shopspring/decimal"

	"verger/internal/core"
)

// CreateProductRequest registers a new product.
type CreateProductRequest struct {
	Name           string
	Category       core.Category
	Unit           core.Unit
	InitialStock   decimal.Decimal
	AlertThreshold decimal.Decimal
}

// UpdateProductRequest edits an existing product. Stock level is absent on
// purpose: it only changes through movements.
type UpdateProductRequest struct {
	Name           string
	Category       core.Category
	Unit           core.Unit
	AlertThreshold decimal.Decimal
}

// MovementRequest records a stock entry or exit.
type MovementRequest struct {
	ProductID int64
	Direction core.Direction
	Quantity  decimal.Decimal
	Source    *string
}

// SaleRequest records a sale, optionally attributed to a client.
type SaleRequest struct {
	ProductID int64
	Quantity  decimal.Decimal
	Channel   core.Channel
	ClientID  *int64
}

// ClientRequest carries client fields for creation and update. Consent is
// read at creation only.
type ClientRequest struct {
	Name    string
	Email   *string
	Phone   *string
	Consent bool
}
