package main

import (
	"context"
	"log"
	"net/http"

	webAdapter "dairyfarm/internal/adapters/web"
	"dairyfarm/internal/config"
	"dairyfarm/internal/core"
	"dairyfarm/internal/db"

	"github.com/joho/godotenv"
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

	userService := core.NewUserService(pool)
	orderService := core.NewOrderService(pool, core.DefaultCatalog())
	financeService := core.NewFinanceService(pool)
	cattleService := core.NewCattleService(pool)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := userService.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminFirstName, cfg.AdminLastName); err != nil {
			log.Fatalf("admin seed: %v", err)
		}
	}

	handler := webAdapter.NewHandler(webAdapter.Services{
		Users:   userService,
		Orders:  orderService,
		Finance: financeService,
		Cattle:  cattleService,
	}, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTTTL,
		PollInterval:   cfg.PollInterval,
	})

	log.Printf("server starting on %s", cfg.HTTPAddress())
	if err := http.ListenAndServe(cfg.HTTPAddress(), handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
