package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stationbooks/api/internal/config"
	"github.com/stationbooks/api/internal/database"
	"github.com/stationbooks/api/internal/enum"
	"github.com/stationbooks/api/internal/handler"
	mw "github.com/stationbooks/api/internal/middleware"
	"github.com/stationbooks/api/internal/settlement"
	"github.com/stationbooks/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/shifts/{id}/activity", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	newStore := func(db database.DBTX) settlement.Store {
		return database.New(db)
	}
	settlementSvc := settlement.NewService(queries, pool, newStore, settlement.Config{
		AutoConfirmSale:      cfg.AutoConfirmSale,
		CreditLoyaltyAllowed: cfg.CreditLoyaltyAllowed,
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Station registry reads, open to all authenticated users
		registryHandler := handler.NewRegistryHandler(queries)
		registryHandler.RegisterRoutes(r)

		// Forecourt flow: closing entries and settlements
		closingHandler := handler.NewClosingHandler(settlementSvc, hub)
		closingHandler.RegisterRoutes(r)

		settlementHandler := handler.NewSettlementHandler(settlementSvc, hub)
		settlementHandler.RegisterRoutes(r)

		pettyCashHandler := handler.NewPettyCashHandler(settlementSvc)
		pettyCashHandler.RegisterRoutes(r)

		// Manager/admin routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleManager))

			registryHandler.RegisterAdminRoutes(r)
			pettyCashHandler.RegisterAdminRoutes(r)

			reportHandler := handler.NewReportHandler(queries)
			reportHandler.RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
