package cli

import (
	"context"
	"fmt"
	"log"
	"strings"

	"verger/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "products", "prod", "p":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		printProducts(result)

	case "movements", "mov", "m":
		result, err := svc.ListMovements(ctx, 100)
		if err != nil {
			log.Fatalf("Failed to list movements: %v", err)
		}
		printMovements(result)

	case "sales", "s":
		result, err := svc.ListSales(ctx, 100)
		if err != nil {
			log.Fatalf("Failed to list sales: %v", err)
		}
		printSales(result)

	case "clients", "c":
		result, err := svc.ListActiveClients(ctx)
		if err != nil {
			log.Fatalf("Failed to list clients: %v", err)
		}
		printClients(result)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: products, movements, sales, clients", args[0])
	}
}

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-68s\n", "PRODUCTS")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-5s %-26s %-10s %-7s %12s %6s\n", "ID", "NAME", "CATEGORY", "UNIT", "STOCK", "ALERT")
	fmt.Println(strings.Repeat("-", 72))
	for _, p := range result.Products {
		alert := ""
		if p.LowStock {
			alert = "LOW"
		}
		fmt.Printf("  %-5d %-26s %-10s %-7s %12s %6s\n",
			p.ID, p.Name, p.Category, p.Unit, p.StockLevel.StringFixed(2), alert)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printMovements(result *app.MovementListResult) {
	fmt.Println()
	fmt.Printf("  %-5s %-26s %-6s %12s  %s\n", "ID", "PRODUCT", "DIR", "QTY", "SOURCE")
	fmt.Println(strings.Repeat("-", 72))
	for _, m := range result.Movements {
		source := ""
		if m.Source != nil {
			source = *m.Source
		}
		fmt.Printf("  %-5d %-26s %-6s %12s  %s\n",
			m.ID, m.ProductName, m.Direction, m.Quantity.StringFixed(2), source)
	}
}

func printSales(result *app.SaleListResult) {
	fmt.Println()
	fmt.Printf("  %-5s %-26s %12s %-8s %s\n", "ID", "PRODUCT", "QTY", "CHANNEL", "CLIENT")
	fmt.Println(strings.Repeat("-", 72))
	for _, v := range result.Sales {
		client := "-"
		if v.ClientID != nil {
			client = fmt.Sprintf("%d", *v.ClientID)
		}
		fmt.Printf("  %-5d %-26s %12s %-8s %s\n",
			v.ID, v.ProductName, v.Quantity.StringFixed(2), v.Channel, client)
	}
}

func printClients(result *app.ClientListResult) {
	fmt.Println()
	fmt.Printf("  %-5s %-26s %-28s %s\n", "ID", "NAME", "EMAIL", "PHONE")
	fmt.Println(strings.Repeat("-", 72))
	for _, c := range result.Clients {
		email, phone := "-", "-"
		if c.Email != nil {
			email = *c.Email
		}
		if c.Phone != nil {
			phone = *c.Phone
		}
		fmt.Printf("  %-5d %-26s %-28s %s\n", c.ID, c.Name, email, phone)
	}
}
