// Package server assembles the chi router and owns the HTTP server
// lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mealcraft/v1/internal/infrastructure/config"
	"github.com/mealcraft/v1/internal/infrastructure/http/handlers"
	"github.com/mealcraft/v1/internal/infrastructure/http/middleware"
)

// Server wraps the HTTP server with graceful lifecycle management.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *zap.Logger
}

// New builds the router and the server around it.
func New(
	cfg *config.Config,
	h *handlers.Handlers,
	metrics *middleware.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	router := buildRouter(cfg, h, metrics, gatherer, logger)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		config: cfg,
		logger: logger.Named("http-server"),
	}
}

func buildRouter(
	cfg *config.Config,
	h *handlers.Handlers,
	metrics *middleware.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.RateLimit(cfg.RateLimit))
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q}`, cfg.App.Version)
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/ingredients", func(rt chi.Router) {
			rt.Get("/", h.ListIngredients)
			rt.Post("/", h.CreateIngredient)
			rt.Delete("/{id}", h.DeleteIngredient)
		})

		api.Route("/recipes", func(rt chi.Router) {
			rt.Get("/", h.ListRecipes)
			rt.Get("/{id}", h.GetRecipe)
			rt.Patch("/{id}/save", h.SaveRecipe)
		})

		api.Route("/grocery-items", func(rt chi.Router) {
			rt.Get("/", h.ListGroceryItems)
			rt.Post("/", h.CreateGroceryItem)
			rt.Patch("/{id}/toggle", h.ToggleGroceryItem)
			rt.Delete("/{id}", h.DeleteGroceryItem)
		})

		api.Route("/nutrition", func(rt chi.Router) {
			rt.Get("/", h.GetNutrition)
			rt.Post("/", h.UpsertNutrition)
		})

		api.Post("/recipe-recommendations", h.RecommendRecipes)
		api.Post("/scan-ingredients", h.ScanIngredients)
		api.Post("/recipe-analysis", h.AnalyzeRecipe)
		api.Get("/service-info", h.ServiceInfo)
	})

	return r
}

// Start begins serving. It blocks until the listener fails or the
// server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
