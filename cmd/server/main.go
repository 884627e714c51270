package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/backup"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/config"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/database"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/feed"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/logger"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/scheduler"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalw("Failed to load configuration", "error", err)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Get()

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalw("Failed to open database", "error", err)
	}
	defer db.Close()

	applied, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.Fatalw("Failed to migrate database", "error", err)
	}
	log.Infow("Connected to database", "path", cfg.Database.Path, "migrationsApplied", applied)

	// Create repositories
	accountRepo := repository.NewAccountRepository(db)
	stockRepo := repository.NewStockRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	actionRepo := repository.NewCorporateActionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Create feeds
	yahooClient := yahoo.NewFinanceClient(cfg.Feed.RequestTimeout)
	priceFeed := feed.NewYahooFeed(yahooClient)
	actionFeed, err := feed.NewCorporateActionFeed(cfg.Feed, yahooClient)
	if err != nil {
		log.Fatalw("Failed to configure corporate action feed", "error", err)
	}

	codec, err := backup.NewCodec(cfg.Backup.Key)
	if err != nil {
		log.Fatalw("Failed to configure backups", "error", err)
	}

	// Create services
	services := api.Services{
		System:          service.NewSystemService(db, cfg),
		Account:         service.NewAccountService(accountRepo, holdingRepo),
		Stock:           service.NewStockService(stockRepo),
		Holding:         service.NewHoldingService(holdingRepo, accountRepo, stockRepo),
		CorporateAction: service.NewCorporateActionService(db, actionRepo, stockRepo, actionFeed, cfg.Scheduler.Concurrency),
		Price:           service.NewPriceService(priceRepo, stockRepo, priceFeed, cfg.Scheduler.Concurrency),
		Valuation: service.NewValuationService(
			db, holdingRepo, accountRepo, stockRepo, actionRepo, priceRepo, snapshotRepo, cfg.Costs,
		),
		Backup: service.NewBackupService(db, accountRepo, stockRepo, holdingRepo, actionRepo, priceRepo),
	}

	refresh, err := scheduler.New(cfg.Scheduler.Schedule,
		scheduler.Step{Name: "prices", Run: func(ctx context.Context) error {
			resp, err := services.Price.UpdateAllPrices(ctx)
			log.Infow("Scheduled price update", "updated", resp.TotalUpdated, "errors", resp.TotalErrors)
			return err
		}},
		scheduler.Step{Name: "corporate actions", Run: func(ctx context.Context) error {
			resp, err := services.CorporateAction.RefreshAllActions(ctx)
			log.Infow("Scheduled corporate action refresh", "updated", resp.TotalUpdated, "errors", resp.TotalErrors)
			return err
		}},
		scheduler.Step{Name: "recalculate", Run: func(ctx context.Context) error {
			resp, err := services.Valuation.Recalculate(ctx)
			log.Infow("Scheduled recalculation", "calculated", resp.Calculated, "errors", len(resp.Errors))
			return err
		}},
	)
	if err != nil {
		log.Fatalw("Failed to configure periodic refresh", "error", err)
	}

	// Create router
	router := api.NewRouter(services, codec, cfg)

	// Create HTTP server. Bulk refreshes span several outbound request timeouts.
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 4 * cfg.Feed.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	refresh.Start()

	// Start server in a goroutine
	go func() {
		log.Infow("Starting server", "addr", cfg.Server.Addr, "corporateActionSource", actionFeed.Source())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := refresh.Stop(ctx); err != nil {
		log.Warnw("Periodic refresh did not stop cleanly", "error", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
		return
	}

	log.Info("Server exited")
}
