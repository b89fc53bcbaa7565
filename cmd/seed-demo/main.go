// seed-demo is a one-shot tool to load demonstration data into an empty
// database: a small orchard catalogue, a few opening movements and a handful
// of consenting clients. It refuses to touch a database that already has
// products.
//
// Usage: go run ./cmd/seed-demo
package main

import (
	"context"
	"log"

	"verger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		log.Fatalf("Failed to count products: %v", err)
	}
	if count > 0 {
		log.Println("Database already has products; nothing to do.")
		return
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (name, category, unit, stock_level, alert_threshold) VALUES
		('Gala Apples',    'fruit',     'weight', 150, 20),
		('Golden Apples',  'fruit',     'weight', 120, 20),
		('Williams Pears', 'fruit',     'weight',  80, 15),
		('Carrots',        'vegetable', 'weight',  95, 25),
		('Lettuce',        'vegetable', 'count',   45, 20),
		('Tomatoes',       'vegetable', 'weight',  60, 15),
		('Apple Juice',    'processed', 'count',    8, 10),
		('Apple Compote',  'processed', 'count',   25, 10);
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding opening movements...")
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (product_id, direction, quantity, source)
		SELECT id, 'entry', stock_level, 'opening stock'
		FROM products
		WHERE stock_level > 0;
	`)
	if err != nil {
		log.Fatalf("Failed to seed movements: %v", err)
	}

	log.Println("Seeding clients...")
	_, err = tx.Exec(ctx, `
		INSERT INTO clients (name, email, phone, consent) VALUES
		('Marie Dubois',   'marie.dubois@example.com',  '0612345678', true),
		('Jean Martin',    'jean.martin@example.com',   '0623456789', true),
		('Sophie Bernard', NULL,                        '0634567890', true),
		('Pierre Durand',  'pierre.durand@example.com', NULL,         true);
	`)
	if err != nil {
		log.Fatalf("Failed to seed clients: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit seed: %v", err)
	}
	log.Println("Demo data loaded.")
}
