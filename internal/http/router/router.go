package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/config"
	"github.com/veritas-legal/casefile-api/internal/database"
	"github.com/veritas-legal/casefile-api/internal/http/handler"
	"github.com/veritas-legal/casefile-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/veritas-legal/casefile-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	authHandler    *handler.AuthHandler
	caseHandler    *handler.CaseHandler
	docHandler     *handler.DocumentHandler
	billHandler    *handler.MedicalBillHandler
	chatHandler    *handler.ChatHandler
	letterHandler  *handler.DemandLetterHandler
	healthHandler  *handler.HealthHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	caseHandler *handler.CaseHandler,
	docHandler *handler.DocumentHandler,
	billHandler *handler.MedicalBillHandler,
	chatHandler *handler.ChatHandler,
	letterHandler *handler.DemandLetterHandler,
	healthHandler *handler.HealthHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		authHandler:    authHandler,
		caseHandler:    caseHandler,
		docHandler:     docHandler,
		billHandler:    billHandler,
		chatHandler:    chatHandler,
		letterHandler:  letterHandler,
		healthHandler:  healthHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// External dependency health (blob storage smoke test and placeholders)
	r.Get("/health/services", rt.healthHandler.Services)

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", rt.authHandler.Register)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Put("/auth/ai-settings", rt.authHandler.UpdateAiSettings)

			// Cases and nested resources
			r.Route("/cases", func(r chi.Router) {
				r.Get("/", rt.caseHandler.List)
				r.Post("/", rt.caseHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", rt.caseHandler.Get)
					r.Put("/", rt.caseHandler.Update)
					r.Delete("/", rt.caseHandler.Delete)

					r.Get("/documents", rt.docHandler.ListByCase)
					r.Post("/documents", rt.docHandler.Upload)

					r.Get("/bills", rt.billHandler.ListByCase)
					r.Post("/bills", rt.billHandler.Create)

					r.Get("/chat/sessions", rt.chatHandler.ListSessions)
					r.Post("/chat/sessions", rt.chatHandler.CreateSession)

					r.Get("/demand-letters", rt.letterHandler.ListByCase)
					r.Post("/demand-letters", rt.letterHandler.Generate)
				})
			})

			// Documents
			r.Route("/documents/{id}", func(r chi.Router) {
				r.Get("/", rt.docHandler.Get)
				r.Delete("/", rt.docHandler.Delete)
				r.Get("/download", rt.docHandler.Download)
				r.Get("/url", rt.docHandler.SignedURL)
				r.Post("/analyze", rt.docHandler.Analyze)
			})

			// Medical bills
			r.Route("/bills/{id}", func(r chi.Router) {
				r.Get("/", rt.billHandler.Get)
				r.Put("/", rt.billHandler.Update)
				r.Delete("/", rt.billHandler.Delete)
			})

			// Chat sessions
			r.Route("/chat/sessions/{id}", func(r chi.Router) {
				r.Get("/", rt.chatHandler.GetSession)
				r.Delete("/", rt.chatHandler.DeleteSession)
				r.Post("/messages", rt.chatHandler.SendMessage)
			})

			// Demand letters
			r.Route("/demand-letters/{id}", func(r chi.Router) {
				r.Get("/", rt.letterHandler.Get)
				r.Put("/", rt.letterHandler.Update)
				r.Delete("/", rt.letterHandler.Delete)
			})
		})
	})

	return r
}
