package app

import "verger/internal/core"

// ProductResult is returned by product operations.
type ProductResult struct {
	Product *core.Product
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// MovementResult is returned by ApplyMovement.
type MovementResult struct {
	MovementID int64
}

// MovementListResult is returned by ListMovements.
type MovementListResult struct {
	Movements []core.Movement
}

// SaleResult is returned by RecordSale.
type SaleResult struct {
	SaleID int64
}

// SaleListResult is returned by ListSales.
type SaleListResult struct {
	Sales []core.Sale
}

// ClientResult is returned by client operations.
type ClientResult struct {
	Client *core.Client
}

// ClientListResult is returned by ListActiveClients.
type ClientListResult struct {
	Clients []core.Client
}

// DeactivationResult is returned by DeactivateClient.
type DeactivationResult struct {
	AnonymizedSales bool `json:"anonymized_sales"`
}
