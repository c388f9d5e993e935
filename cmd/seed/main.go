// Command seed populates a fresh database with a demo user, a handful of
// orders with their finance records, and a small starter herd. Running it
// against a database that already has orders is a no-op.
package main

import (
	"context"
	"errors"
	"log"

	"dairyfarm/internal/config"
	"dairyfarm/internal/core"
	"dairyfarm/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	var orderCount int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_orders`).Scan(&orderCount); err != nil {
		log.Fatalf("count orders: %v", err)
	}
	if orderCount > 0 {
		log.Printf("database already has %d orders, nothing to seed", orderCount)
		return
	}

	userService := core.NewUserService(pool)
	orderService := core.NewOrderService(pool, core.DefaultCatalog())
	cattleService := core.NewCattleService(pool)

	demo, err := userService.Register(ctx, core.RegisterInput{
		Email:     "demo@dairyfarm.local",
		Password:  "demo1234",
		FirstName: "Demo",
		LastName:  "Farmer",
	})
	if errors.Is(err, core.ErrEmailTaken) {
		demo, err = userService.Login(ctx, "demo@dairyfarm.local", "demo1234")
	}
	if err != nil {
		log.Fatalf("demo user: %v", err)
	}

	orders := []core.CreateOrderInput{
		{CustomerName: "Sunrise Grocers", Product: "Fresh Milk", Quantity: 5, Status: "delivered"},
		{CustomerName: "Hilltop Cafe", Product: "Organic Butter", Quantity: 3, Status: "shipped"},
		{CustomerName: "Green Valley Market", Product: "Farm Cheese", Quantity: 2, Status: "processing"},
		{CustomerName: "Lakeside Deli", Product: "Yogurt", Quantity: 10, Status: "pending"},
		{CustomerName: "Sunrise Grocers", Product: "Heavy Cream", Quantity: 4, Status: "delivered"},
		{CustomerName: "Old Mill Bakery", Product: "Cottage Cheese", Quantity: 6, Status: "cancelled"},
	}
	for _, in := range orders {
		if _, err := orderService.Create(ctx, demo.ID, in); err != nil {
			log.Fatalf("seed order %q: %v", in.Product, err)
		}
	}
	log.Printf("seeded %d orders with finance records", len(orders))

	name := func(s string) *string { return &s }
	age := func(n int) *int { return &n }
	weight := func(f float64) *float64 { return &f }
	milk := func(f float64) *decimal.Decimal {
		d := decimal.NewFromFloat(f)
		return &d
	}

	herd := []core.CattleInput{
		{Name: name("Daisy"), Breed: "Holstein", Gender: "female", Age: age(4), Weight: weight(620), HealthStatus: "healthy", MilkProduction: milk(28.5)},
		{Name: name("Bella"), Breed: "Jersey", Gender: "female", Age: age(3), Weight: weight(450), HealthStatus: "healthy", MilkProduction: milk(22.0)},
		{Name: name("Moo"), Breed: "Guernsey", Gender: "female", Age: age(5), Weight: weight(540), HealthStatus: "sick", MilkProduction: milk(15.0)},
		{Name: name("Duke"), Breed: "Holstein", Gender: "male", Age: age(6), Weight: weight(900), HealthStatus: "healthy"},
	}
	for _, in := range herd {
		if _, err := cattleService.Create(ctx, demo.ID, in); err != nil {
			log.Fatalf("seed cattle: %v", err)
		}
	}
	log.Printf("seeded %d cattle", len(herd))
}
