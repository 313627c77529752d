package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gstledger/backend/internal/application/importapp"
	appreport "github.com/gstledger/backend/internal/application/report"
	"github.com/gstledger/backend/internal/domain/catalog"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
	"github.com/gstledger/backend/internal/infrastructure/config"
	"github.com/gstledger/backend/internal/infrastructure/costs"
	"github.com/gstledger/backend/internal/infrastructure/logger"
	"github.com/gstledger/backend/internal/infrastructure/persistence"
	"github.com/gstledger/backend/internal/interfaces/http/handler"
	"github.com/gstledger/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// The single-file sqlite setup has no separate migration step; postgres
	// deployments run cmd/migrate before starting the server.
	if cfg.Database.Driver == "sqlite" {
		if err := db.DB.AutoMigrate(
			&trade.SaleRecord{},
			&trade.ReturnRecord{},
			&trade.InvoiceRecord{},
			&tenant.SellerMapping{},
		); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	salesRepo := persistence.NewSaleRecordRepository(db)
	replacer := persistence.NewImportReplacer(db)
	invoicesRepo := persistence.NewInvoiceRecordRepository(db)
	mappingsRepo := persistence.NewSellerMappingRepository(db)
	gateway := persistence.NewTenantGateway(db)

	normalizer := catalog.NewNormalizer(catalog.DefaultNormalizerConfig())

	costTable := catalog.NewStaticCostTable(nil)
	if cfg.Costs.PricesPath != "" {
		costTable, err = costs.Load(cfg.Costs.PricesPath, normalizer)
		if err != nil {
			log.Fatal("Failed to load cost-price file",
				zap.String("path", cfg.Costs.PricesPath), zap.Error(err))
		}
		log.Info("Cost-price file loaded", zap.String("path", cfg.Costs.PricesPath))
	}

	slabs := make([]decimal.Decimal, 0, len(cfg.Tax.RateSlabs))
	for _, slab := range cfg.Tax.RateSlabs {
		slabs = append(slabs, decimal.NewFromFloat(slab))
	}

	resolver := importapp.NewIdentityResolver(mappingsRepo)
	coordinator := importapp.NewCoordinator()
	salesImport := importapp.NewSalesImportService(
		replacer, resolver, normalizer, slabs, coordinator, cfg.Importer.MaxRowErrors)
	invoiceImport := importapp.NewInvoiceImportService(
		invoicesRepo, salesRepo, resolver, coordinator, cfg.Importer.MaxRowErrors)

	aggregator := appreport.NewAggregationService(
		gateway, costTable,
		decimal.NewFromFloat(cfg.Tax.LargeInvoiceThreshold),
		decimal.NewFromFloat(cfg.Tax.FixedCostPerOrder),
	)

	engine, err := router.New(cfg, log, router.Handlers{
		Import: handler.NewImportHandler(salesImport, invoiceImport, mappingsRepo),
		Report: handler.NewReportHandler(aggregator),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
