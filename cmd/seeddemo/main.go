// cmd/seeddemo/main.go — seeds a demo company and a small product catalog.
// Usage: go run cmd/seeddemo/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"tradeledger/internal/model"
	"tradeledger/internal/repository"
	"tradeledger/internal/store"
)

func main() {
	databaseURL := os.Getenv("FIREBASE_DATABASE_URL")
	if databaseURL == "" {
		databaseURL = "http://localhost:9000/?ns=tradeledger"
	}

	ctx := context.Background()
	s, err := store.NewFirebaseStore(ctx, databaseURL, os.Getenv("FIREBASE_CREDENTIALS_FILE"))
	if err != nil {
		log.Fatalf("store connect error: %v", err)
	}

	companyRepo := repository.NewCompanyRepository(s)
	productRepo := repository.NewProductRepository(s)

	// Idempotent by name: rerunning against a seeded database is a no-op.
	existing, err := companyRepo.List(ctx)
	if err != nil {
		log.Fatalf("list companies error: %v", err)
	}
	for _, c := range existing {
		if c.Name == "Acme Traders Ltd" {
			fmt.Println("demo data already present, nothing to do")
			return
		}
	}

	companyID, err := companyRepo.Create(ctx, &model.Company{
		Name:          "Acme Traders Ltd",
		ContactPerson: "Jane Wanjiku",
		Phone:         "+254700000000",
		Email:         "accounts@acmetraders.example",
		Address:       "Industrial Area, Nairobi",
		KRAPin:        "P051234567X",
		CreatedAt:     "2026-01-01T00:00:00Z",
	})
	if err != nil {
		log.Fatalf("seed company error: %v", err)
	}

	products := []model.Product{
		{Name: "Cement 50kg", Unit: "bag", UnitPrice: decimal.NewFromInt(850)},
		{Name: "Steel bar 12mm", Unit: "pc", UnitPrice: decimal.NewFromInt(1200)},
		{Name: "Paint 20L", Unit: "bucket", UnitPrice: decimal.NewFromInt(5400), VATInclusive: true},
	}
	for i := range products {
		products[i].CreatedAt = "2026-01-01T00:00:00Z"
		if _, err := productRepo.Create(ctx, &products[i]); err != nil {
			log.Fatalf("seed product error: %v", err)
		}
	}

	fmt.Printf("✅ Seeded company %s and %d products\n", companyID, len(products))
}
