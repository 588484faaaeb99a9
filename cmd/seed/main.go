package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/salesboard-platform/api/internal/store"
)

// Seeds a small demo dataset so the dashboard has something to draw before
// the first real upload.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	s := store.New(pool)
	commission := decimal.NewFromInt(10)

	type seedSale struct {
		product  string
		category string
		region   string
		platform string
		quantity int64
		price    string
		daysAgo  int
	}

	sales := []seedSale{
		{"Кофеварка Arto", "Бытовая техника", "Москва", "Ozon", 3, "5490", 40},
		{"Кофеварка Arto", "Бытовая техника", "Санкт-Петербург", "Wildberries", 2, "5490", 25},
		{"Чайник Nord", "Бытовая техника", "Москва", "Ozon", 5, "1990", 12},
		{"Кроссовки Vela", "Обувь", "Казань", "Wildberries", 4, "3790", 33},
		{"Кроссовки Vela", "Обувь", "Москва", "Яндекс Маркет", 1, "3790", 8},
		{"Рюкзак Titan", "Аксессуары", "Новосибирск", "Ozon", 6, "2490", 19},
		{"Рюкзак Titan", "Аксессуары", "Москва", "Wildberries", 2, "2490", 3},
	}

	now := time.Now().UTC()
	for _, sale := range sales {
		categoryID, err := s.EnsureCategory(ctx, sale.category,
			"Автоматически добавленная категория: "+sale.category)
		if err != nil {
			log.Fatalf("seed category %q: %v", sale.category, err)
		}
		regionID, err := s.EnsureRegion(ctx, sale.region)
		if err != nil {
			log.Fatalf("seed region %q: %v", sale.region, err)
		}
		platformID, err := s.EnsurePlatform(ctx, sale.platform, commission)
		if err != nil {
			log.Fatalf("seed platform %q: %v", sale.platform, err)
		}

		price, err := decimal.NewFromString(sale.price)
		if err != nil {
			log.Fatalf("seed price %q: %v", sale.price, err)
		}
		productID, err := s.EnsureProduct(ctx, store.EnsureProductParams{
			Name:       sale.product,
			CategoryID: categoryID,
			Price:      price,
		})
		if err != nil {
			log.Fatalf("seed product %q: %v", sale.product, err)
		}

		quantity := decimal.NewFromInt(sale.quantity)
		if _, err := s.InsertSale(ctx, store.InsertSaleParams{
			ProductID:   productID,
			RegionID:    regionID,
			PlatformID:  platformID,
			SaleDate:    now.AddDate(0, 0, -sale.daysAgo),
			Quantity:    quantity,
			UnitPrice:   price,
			TotalAmount: quantity.Mul(price),
		}); err != nil {
			log.Fatalf("seed sale %q: %v", sale.product, err)
		}
	}

	log.Printf("seeded %d sales", len(sales))
}
