package main

import (
	"log"

	"go-basket-analytics/internal/api"
	"go-basket-analytics/internal/api/handler"
	"go-basket-analytics/internal/config"
	"go-basket-analytics/internal/store"
	"go-basket-analytics/pkg/router"
	"go-basket-analytics/pkg/utils"
)

// @title Basket Analytics API
// @version 1.0
// @description Bought-together analytics over historical order data
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := store.InitDB(cfg.Database.Path); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := utils.NewOutputManager(cfg.Output.Dir).EnsureOutputDirExists(); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	handler.Setup(cfg)

	r := router.New()
	api.RegisterRoutes(r)

	log.Fatal(r.Start(cfg.Server.Addr))
}
