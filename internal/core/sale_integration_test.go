package core_test

import (
	"testing"

	"verger/internal/core"

	"github.com/shopspring/decimal"
)

func TestSale_WritesSaleMovementAndStockTogether(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	stock := core.NewStockService(pool)
	svc := core.NewSaleService(pool, stock)

	productID := seedProduct(t, ctx, pool, "Zucchini", 40)

	saleID, err := svc.RecordSale(ctx, productID, decimal.NewFromInt(12), core.ChannelKiosk, nil)
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	if saleID == 0 {
		t.Error("expected a sale id")
	}

	if stockLevel := productStock(t, ctx, pool, productID); !stockLevel.Equal(decimal.NewFromInt(28)) {
		t.Errorf("expected stock 28 after sale of 12, got %s", stockLevel)
	}
	if n := countRows(t, ctx, pool, "sales"); n != 1 {
		t.Errorf("expected exactly 1 sale row, got %d", n)
	}
	if n := countRows(t, ctx, pool, "stock_movements"); n != 1 {
		t.Errorf("expected exactly 1 movement row, got %d", n)
	}

	var direction, source string
	err = pool.QueryRow(ctx,
		"SELECT direction, source FROM stock_movements WHERE product_id = $1", productID,
	).Scan(&direction, &source)
	if err != nil {
		t.Fatalf("movement row missing: %v", err)
	}
	if direction != "exit" {
		t.Errorf("expected exit movement, got %s", direction)
	}
	if source != "sale (kiosk)" {
		t.Errorf("expected movement source to name the channel, got %q", source)
	}
}

func TestSale_InvalidChannel(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool, core.NewStockService(pool))

	productID := seedProduct(t, ctx, pool, "Potatoes", 200)

	_, err := svc.RecordSale(ctx, productID, decimal.NewFromInt(5), core.Channel("online"), nil)
	if kind := core.KindOf(err); kind != core.KindValidation {
		t.Errorf("expected VALIDATION, got %s (%v)", kind, err)
	}
	if n := countRows(t, ctx, pool, "sales"); n != 0 {
		t.Errorf("rejected sale must not persist, got %d rows", n)
	}
}

func TestSale_InsufficientStockLeavesNoSaleRow(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool, core.NewStockService(pool))

	productID := seedProduct(t, ctx, pool, "Strawberry Jam", 3)

	_, err := svc.RecordSale(ctx, productID, decimal.NewFromInt(4), core.ChannelMarket, nil)
	if kind := core.KindOf(err); kind != core.KindInsufficientStock {
		t.Errorf("expected INSUFFICIENT_STOCK, got %s (%v)", kind, err)
	}

	if n := countRows(t, ctx, pool, "sales"); n != 0 {
		t.Errorf("failed sale must leave no sale row, got %d", n)
	}
	if n := countRows(t, ctx, pool, "stock_movements"); n != 0 {
		t.Errorf("failed sale must leave no movement row, got %d", n)
	}
	if stockLevel := productStock(t, ctx, pool, productID); !stockLevel.Equal(decimal.NewFromInt(3)) {
		t.Errorf("stock must be untouched, got %s", stockLevel)
	}
}

func TestSale_UnknownClient(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool, core.NewStockService(pool))

	productID := seedProduct(t, ctx, pool, "Leeks", 30)

	unknown := int64(4242)
	_, err := svc.RecordSale(ctx, productID, decimal.NewFromInt(2), core.ChannelKiosk, &unknown)
	if kind := core.KindOf(err); kind != core.KindNotFound {
		t.Errorf("expected NOT_FOUND, got %s (%v)", kind, err)
	}
	if n := countRows(t, ctx, pool, "sales"); n != 0 {
		t.Errorf("sale with unknown client must not persist, got %d rows", n)
	}
	if stockLevel := productStock(t, ctx, pool, productID); !stockLevel.Equal(decimal.NewFromInt(30)) {
		t.Errorf("stock must be untouched, got %s", stockLevel)
	}
}

func TestSale_DeactivatedClientCannotBeAttributed(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	clients := core.NewClientService(pool)
	svc := core.NewSaleService(pool, core.NewStockService(pool))

	productID := seedProduct(t, ctx, pool, "Honey", 20)

	client, err := clients.CreateClient(ctx, core.ClientInput{Name: "Claire Fontaine", Consent: true})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if err := clients.DeactivateClient(ctx, client.ID); err != nil {
		t.Fatalf("DeactivateClient failed: %v", err)
	}

	// A deactivated client has been severed from their history; a new sale
	// must not re-create the link.
	_, err = svc.RecordSale(ctx, productID, decimal.NewFromInt(1), core.ChannelKiosk, &client.ID)
	if kind := core.KindOf(err); kind != core.KindNotFound {
		t.Errorf("expected NOT_FOUND for deactivated client, got %s (%v)", kind, err)
	}

	var attributed int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM sales WHERE client_id = $1", client.ID,
	).Scan(&attributed); err != nil {
		t.Fatalf("count attributed sales: %v", err)
	}
	if attributed != 0 {
		t.Errorf("expected no sales attributed to a deactivated client, got %d", attributed)
	}
	if stockLevel := productStock(t, ctx, pool, productID); !stockLevel.Equal(decimal.NewFromInt(20)) {
		t.Errorf("stock must be untouched, got %s", stockLevel)
	}
}

func TestSale_ClientAttributionStored(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	clients := core.NewClientService(pool)
	svc := core.NewSaleService(pool, core.NewStockService(pool))

	productID := seedProduct(t, ctx, pool, "Cider", 50)

	client, err := clients.CreateClient(ctx, core.ClientInput{Name: "Marie Dubois", Consent: true})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	saleID, err := svc.RecordSale(ctx, productID, decimal.NewFromInt(6), core.ChannelMarket, &client.ID)
	if err != nil {
		t.Fatalf("RecordSale with client failed: %v", err)
	}

	var storedClient *int64
	if err := pool.QueryRow(ctx, "SELECT client_id FROM sales WHERE id = $1", saleID).Scan(&storedClient); err != nil {
		t.Fatalf("sale row missing: %v", err)
	}
	if storedClient == nil || *storedClient != client.ID {
		t.Errorf("expected sale attributed to client %d, got %v", client.ID, storedClient)
	}
}

func TestSale_StatisticsAggregates(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool, core.NewStockService(pool))

	apples := seedProduct(t, ctx, pool, "Gala Apples", 100)
	pears := seedProduct(t, ctx, pool, "Williams Pears", 100)

	mustSale := func(productID int64, qty int64, channel core.Channel) {
		t.Helper()
		if _, err := svc.RecordSale(ctx, productID, decimal.NewFromInt(qty), channel, nil); err != nil {
			t.Fatalf("RecordSale failed: %v", err)
		}
	}
	mustSale(apples, 10, core.ChannelKiosk)
	mustSale(apples, 5, core.ChannelMarket)
	mustSale(pears, 3, core.ChannelMarket)

	stats, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}

	if len(stats.TopProducts) != 2 {
		t.Fatalf("expected statistics for 2 products, got %d", len(stats.TopProducts))
	}
	if stats.TopProducts[0].ProductName != "Gala Apples" ||
		!stats.TopProducts[0].TotalSold.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected Gala Apples with total 15 first, got %s/%s",
			stats.TopProducts[0].ProductName, stats.TopProducts[0].TotalSold)
	}

	byChannel := map[core.Channel]core.ChannelSalesTotal{}
	for _, c := range stats.SalesByChannel {
		byChannel[c.Channel] = c
	}
	if byChannel[core.ChannelMarket].SaleCount != 2 {
		t.Errorf("expected 2 market sales, got %d", byChannel[core.ChannelMarket].SaleCount)
	}
	if byChannel[core.ChannelKiosk].SaleCount != 1 {
		t.Errorf("expected 1 kiosk sale, got %d", byChannel[core.ChannelKiosk].SaleCount)
	}
}
