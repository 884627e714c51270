package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/backup"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/config"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
)

// Services groups the application services the router exposes.
type Services struct {
	System          *service.SystemService
	Account         *service.AccountService
	Stock           *service.StockService
	Holding         *service.HoldingService
	CorporateAction *service.CorporateActionService
	Price           *service.PriceService
	Valuation       *service.ValuationService
	Backup          *service.BackupService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, codec *backup.Codec, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	accountHandler := handlers.NewAccountHandler(svc.Account, svc.Holding)
	stockHandler := handlers.NewStockHandler(svc.Stock)
	holdingHandler := handlers.NewHoldingHandler(svc.Holding, svc.Valuation)
	actionHandler := handlers.NewCorporateActionHandler(svc.CorporateAction)
	priceHandler := handlers.NewPriceHandler(svc.Price)
	valuationHandler := handlers.NewValuationHandler(svc.Valuation)
	backupHandler := handlers.NewBackupHandler(svc.Backup, codec)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", accountHandler.Accounts)
			r.Post("/", accountHandler.CreateAccount)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", accountHandler.GetAccount)
				r.Put("/", accountHandler.UpdateAccount)
				r.Delete("/", accountHandler.DeleteAccount)
				r.Get("/holding", accountHandler.AccountHoldings)
			})
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", stockHandler.Stocks)
			r.Post("/", stockHandler.CreateStock)

			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/", stockHandler.GetStock)
				r.Put("/", stockHandler.UpdateStock)
				r.Delete("/", stockHandler.DeleteStock)

				r.Get("/action", actionHandler.Actions)
				r.Post("/action", actionHandler.CreateAction)
				r.Post("/action/refresh", actionHandler.RefreshActions)

				r.Get("/price", priceHandler.Prices)
				r.Post("/price/update", priceHandler.UpdatePrice)
			})
		})

		r.Route("/holding", func(r chi.Router) {
			r.Get("/", holdingHandler.Holdings)
			r.Post("/", holdingHandler.CreateHolding)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", holdingHandler.GetHolding)
				r.Put("/", holdingHandler.UpdateHolding)
				r.Delete("/", holdingHandler.DeleteHolding)
				r.Get("/adjustment", holdingHandler.Adjustment)
			})
		})

		r.Post("/action/refresh", actionHandler.RefreshAllActions)
		r.Post("/price/update", priceHandler.UpdateAllPrices)

		r.Route("/valuation", func(r chi.Router) {
			r.Get("/", valuationHandler.Valuation)
			r.Post("/recalculate", valuationHandler.Recalculate)
			r.Get("/snapshot", valuationHandler.Snapshots)
		})

		r.Route("/backup", func(r chi.Router) {
			r.Get("/", backupHandler.Export)
			r.Post("/", backupHandler.Import)
		})
	})

	return r
}
