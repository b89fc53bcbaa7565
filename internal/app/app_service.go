package app

import (
	"context"

	"verger/internal/core"
)

type appService struct {
	products core.ProductService
	stock    core.StockService
	sales    core.SaleService
	clients  core.ClientService
}

// NewAppService constructs an appService that satisfies ApplicationService.
// Each service arrives by injection; nothing here reaches for globals.
func NewAppService(
	products core.ProductService,
	stock core.StockService,
	sales core.SaleService,
	clients core.ClientService,
) ApplicationService {
	return &appService{
		products: products,
		stock:    stock,
		sales:    sales,
		clients:  clients,
	}
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error) {
	p, err := s.products.CreateProduct(ctx, core.ProductInput{
		Name:           req.Name,
		Category:       req.Category,
		Unit:           req.Unit,
		InitialStock:   req.InitialStock,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) GetProduct(ctx context.Context, id int64) (*ProductResult, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) error {
	return s.products.UpdateProduct(ctx, id, core.ProductInput{
		Name:           req.Name,
		Category:       req.Category,
		Unit:           req.Unit,
		AlertThreshold: req.AlertThreshold,
	})
}

func (s *appService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *appService) ApplyMovement(ctx context.Context, req MovementRequest) (*MovementResult, error) {
	id, err := s.stock.ApplyMovement(ctx, req.ProductID, req.Direction, req.Quantity, req.Source)
	if err != nil {
		return nil, err
	}
	return &MovementResult{MovementID: id}, nil
}

func (s *appService) ListMovements(ctx context.Context, limit int) (*MovementListResult, error) {
	movements, err := s.stock.ListMovements(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &MovementListResult{Movements: movements}, nil
}

func (s *appService) RecordSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	id, err := s.sales.RecordSale(ctx, req.ProductID, req.Quantity, req.Channel, req.ClientID)
	if err != nil {
		return nil, err
	}
	return &SaleResult{SaleID: id}, nil
}

func (s *appService) ListSales(ctx context.Context, limit int) (*SaleListResult, error) {
	sales, err := s.sales.ListSales(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) SalesStatistics(ctx context.Context) (*core.SalesStatistics, error) {
	return s.sales.Statistics(ctx)
}

func (s *appService) CreateClient(ctx context.Context, req ClientRequest) (*ClientResult, error) {
	c, err := s.clients.CreateClient(ctx, core.ClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Consent: req.Consent,
	})
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: c}, nil
}

func (s *appService) GetClient(ctx context.Context, id int64) (*ClientResult, error) {
	c, err := s.clients.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: c}, nil
}

func (s *appService) ListActiveClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.clients.ListActiveClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) UpdateClient(ctx context.Context, id int64, req ClientRequest) error {
	return s.clients.UpdateClient(ctx, id, core.ClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
}

func (s *appService) DeactivateClient(ctx context.Context, id int64) (*DeactivationResult, error) {
	if err := s.clients.DeactivateClient(ctx, id); err != nil {
		return nil, err
	}
	return &DeactivationResult{AnonymizedSales: true}, nil
}

func (s *appService) ClientHistory(ctx context.Context, id int64) (*core.PurchaseHistory, error) {
	return s.clients.PurchaseHistory(ctx, id)
}

func (s *appService) ClientStatistics(ctx context.Context) (*core.ClientStatistics, error) {
	return s.clients.Statistics(ctx)
}
