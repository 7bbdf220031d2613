package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labsalud/api/internal/auth"
	"github.com/labsalud/api/internal/config"
	"github.com/labsalud/api/internal/database"
	"github.com/labsalud/api/internal/handler"
	mw "github.com/labsalud/api/internal/middleware"
	"github.com/labsalud/api/internal/service"
)

// New creates a Chi router with all application routes wired up.
// Authentication and capability middleware are applied per route group.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
			"https://backoffice.labsalud.example",
		},
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

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// User management (admin only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireCapability(auth.CapabilityManageUsers))
			userHandler := handler.NewUserHandler(queries)
			r.Route("/users", userHandler.RegisterRoutes)
		})

		// Test catalog: reads for everyone, writes behind ManageCatalog
		labTestHandler := handler.NewLabTestHandler(queries)
		r.Route("/tests", func(r chi.Router) {
			r.Get("/", labTestHandler.List)
			r.Get("/{id}", labTestHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireCapability(auth.CapabilityManageCatalog))
				r.Post("/", labTestHandler.Create)
				r.Put("/{id}", labTestHandler.Update)
				r.Delete("/{id}", labTestHandler.Deactivate)
			})
		})

		// Patients
		patientService := service.NewPatientService(pool, func(db database.DBTX) service.PatientStore {
			return database.New(db)
		})
		patientHandler := handler.NewPatientHandler(patientService, queries)
		r.Route("/patients", func(r chi.Router) {
			r.Get("/", patientHandler.List)
			r.Get("/{id}", patientHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireCapability(auth.CapabilityRegisterPatients))
				r.Post("/", patientHandler.Create)
				r.Put("/{id}", patientHandler.Update)
			})
		})

		// Orders
		orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
			return database.New(db)
		})
		orderHandler := handler.NewOrderHandler(orderService, queries)

		resultService := service.NewResultService(pool, func(db database.DBTX) service.ResultStore {
			return database.New(db)
		})
		resultHandler := handler.NewResultHandler(resultService)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireCapability(auth.CapabilityCreateOrders))
				r.Post("/", orderHandler.Create)
				r.Post("/{id}/items", orderHandler.AddItem)
				r.Delete("/{id}/items/{itemID}", orderHandler.RemoveItem)
			})

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireCapability(auth.CapabilityAdvanceOrders))
				r.Put("/{id}/status", orderHandler.UpdateStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireCapability(auth.CapabilityCaptureResults))
				resultHandler.RegisterRoutes(r)
			})
		})

		// Settlements
		settlementService := service.NewSettlementService(queries)
		settlementHandler := handler.NewSettlementHandler(settlementService)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireCapability(auth.CapabilitySettle))
			r.Route("/settlements", settlementHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
