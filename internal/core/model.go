package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFruit     Category = "fruit"
	CategoryVegetable Category = "vegetable"
	CategoryProcessed Category = "processed"
)

type Unit string

const (
	UnitWeight Unit = "weight"
	UnitCount  Unit = "count"
)

type Direction string

const (
	DirectionEntry Direction = "entry"
	DirectionExit  Direction = "exit"
)

type Channel string

const (
	ChannelKiosk  Channel = "kiosk"
	ChannelMarket Channel = "market"
)

type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Category       Category        `json:"category"`
	Unit           Unit            `json:"unit"`
	StockLevel     decimal.Decimal `json:"stock_level"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	LowStock       bool            `json:"low_stock"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Movement is an immutable audit record of one stock change for one product.
// Rows are only ever inserted, in the same transaction as the stock update.
type Movement struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Direction   Direction       `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	Source      *string         `json:"source,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type Sale struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Channel     Channel         `json:"channel"`
	ClientID    *int64          `json:"client_id,omitempty"`
	SoldAt      time.Time       `json:"sold_at"`
}

// Client is a customer record. Consent must be explicitly granted at creation;
// deactivation is one-way and severs the client from historical sales.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Consent   bool      `json:"consent"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductSalesTotal is one row of the "top sold products" statistic.
type ProductSalesTotal struct {
	ProductName string          `json:"product_name"`
	Unit        Unit            `json:"unit"`
	TotalSold   decimal.Decimal `json:"total_sold"`
}

// ChannelSalesTotal aggregates sales per channel.
type ChannelSalesTotal struct {
	Channel       Channel         `json:"channel"`
	SaleCount     int             `json:"sale_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// CategoryStockTotal aggregates current stock per product category.
type CategoryStockTotal struct {
	Category     Category        `json:"category"`
	TotalStock   decimal.Decimal `json:"total_stock"`
	ProductCount int             `json:"product_count"`
}

// SalesStatistics is the payload of the sales statistics endpoint.
type SalesStatistics struct {
	TopProducts     []ProductSalesTotal  `json:"top_products"`
	SalesByChannel  []ChannelSalesTotal  `json:"sales_by_channel"`
	StockByCategory []CategoryStockTotal `json:"stock_by_category"`
}

// ClientPurchaseTotal is one row of the "most active buyers" statistic.
type ClientPurchaseTotal struct {
	ClientID      int64           `json:"client_id"`
	ClientName    string          `json:"client_name"`
	PurchaseCount int             `json:"purchase_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// ClientStatistics is the payload of the global client statistics endpoint.
type ClientStatistics struct {
	ActiveClients int                   `json:"active_clients"`
	WithConsent   int                   `json:"with_consent"`
	TopBuyers     []ClientPurchaseTotal `json:"top_buyers"`
}

// PurchaseHistory is a client's sales history with summary figures.
type PurchaseHistory struct {
	Client         *Client  `json:"client"`
	PurchaseCount  int      `json:"purchase_count"`
	ProductsBought int      `json:"products_bought"`
	ChannelsUsed   []string `json:"channels_used"`
	Sales          []Sale   `json:"sales"`
}

// ValidCategory reports whether c is one of the enumerated product categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryFruit, CategoryVegetable, CategoryProcessed:
		return true
	}
	return false
}

// ValidUnit reports whether u is one of the enumerated product units.
func ValidUnit(u Unit) bool {
	return u == UnitWeight || u == UnitCount
}

// ValidChannel reports whether ch is one of the enumerated sales channels.
func ValidChannel(ch Channel) bool {
	return ch == ChannelKiosk || ch == ChannelMarket
}
