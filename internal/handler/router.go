package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/metrics"
	"github.com/prn-tf/inventario/internal/repository"
)

// Router assembles the HTTP API.
type Router struct {
	authHandler      *AuthHandler
	userHandler      *UserHandler
	warehouseHandler *WarehouseHandler
	productHandler   *ProductHandler
	authMiddleware   func(http.Handler) http.Handler
	health           repository.DatabaseHealth
	metricsEnabled   bool
	metricsPath      string
	logger           zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	WarehouseHandler *WarehouseHandler
	ProductHandler   *ProductHandler
	AuthMiddleware   func(http.Handler) http.Handler
	Health           repository.DatabaseHealth
	MetricsEnabled   bool
	MetricsPath      string
	Logger           zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		authHandler:      config.AuthHandler,
		userHandler:      config.UserHandler,
		warehouseHandler: config.WarehouseHandler,
		productHandler:   config.ProductHandler,
		authMiddleware:   config.AuthMiddleware,
		health:           config.Health,
		metricsEnabled:   config.MetricsEnabled,
		metricsPath:      config.MetricsPath,
		logger:           config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(RequestLogger(rt.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(rt.authMiddleware)

	r.Get("/health", rt.handleHealth)
	if rt.metricsEnabled {
		r.Method(http.MethodGet, rt.metricsPath, metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/logout", rt.authHandler.Logout)

		r.Route("/usuario", func(r chi.Router) {
			r.Post("/", rt.userHandler.Create)
			r.Get("/", rt.userHandler.Get)
			r.Put("/", rt.userHandler.Update)
			r.Delete("/", rt.userHandler.Delete)
		})

		r.Route("/estoque", func(r chi.Router) {
			r.Get("/", rt.warehouseHandler.List)
			r.Post("/", rt.warehouseHandler.Create)
			r.Get("/{id}", rt.warehouseHandler.Get)
			r.Put("/{id}", rt.warehouseHandler.Update)
			r.Delete("/{id}", rt.warehouseHandler.Delete)
		})

		r.Route("/produto", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Get("/{id}", rt.productHandler.Get)
			r.Put("/{id}", rt.productHandler.Update)
			r.Delete("/{id}", rt.productHandler.Delete)
		})
	})

	return r
}

// handleHealth handles health check requests, including a database ping.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if rt.health != nil {
		if err := rt.health.Health(ctx); err != nil {
			rt.logger.Error().Err(err).Msg("health check failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
