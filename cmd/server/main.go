package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "verger/internal/adapters/web"
	"verger/internal/app"
	"verger/internal/core"
	"verger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

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

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
