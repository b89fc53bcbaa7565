// app is the terminal companion to the web server: one-shot listings of
// products, movements, sales and clients against the same database.
//
// Usage: go run ./cmd/app <products|movements|sales|clients>
package main

import (
	"context"
	"log"
	"os"

	"verger/internal/adapters/cli"
	"verger/internal/app"
	"verger/internal/core"
	"verger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: app <products|movements|sales|clients>")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	productService := core.NewProductService(pool)
	stockService := core.NewStockService(pool)
	saleService := core.NewSaleService(pool, stockService)
	clientService := core.NewClientService(pool)

	svc := app.NewAppService(productService, stockService, saleService, clientService)
	cli.Run(ctx, svc, os.Args[1:])
}
