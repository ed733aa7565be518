package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/loroshop/loro/internal/catalog"
	catalogStore "github.com/loroshop/loro/internal/catalog/store"
	"github.com/loroshop/loro/internal/config"
	"github.com/loroshop/loro/internal/database"
	loroHttp "github.com/loroshop/loro/internal/http"
	catalogHandler "github.com/loroshop/loro/internal/http/catalog"
	ledgerHandler "github.com/loroshop/loro/internal/http/ledger"
	"github.com/loroshop/loro/internal/importer"
	"github.com/loroshop/loro/internal/ledger"
	ledgerStore "github.com/loroshop/loro/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	var (
		ledgerService  = ledger.NewService(ledgerStore.New(db), cfg.Shops)
		catalogService = catalog.NewService(catalogStore.New(db))
	)

	var (
		ledgerH  = ledgerHandler.NewHandler(ledgerService)
		catalogH = catalogHandler.NewHandler(catalogService, importer.New())
	)

	router := loroHttp.New(ledgerH, catalogH, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", server.Addr, "shops", cfg.Shops)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
