// Package container wires the application together with Uber Fx.
package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mealcraft/v1/internal/application/recommend"
	"github.com/mealcraft/v1/internal/infrastructure/ai/nebius"
	"github.com/mealcraft/v1/internal/infrastructure/ai/openai"
	"github.com/mealcraft/v1/internal/infrastructure/config"
	"github.com/mealcraft/v1/internal/infrastructure/http/handlers"
	"github.com/mealcraft/v1/internal/infrastructure/http/middleware"
	"github.com/mealcraft/v1/internal/infrastructure/http/server"
	"github.com/mealcraft/v1/internal/infrastructure/persistence/memory"
	"github.com/mealcraft/v1/internal/ports/inbound"
	"github.com/mealcraft/v1/internal/ports/outbound"
	"github.com/mealcraft/v1/pkg/logger"
)

// Module assembles the complete application.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StoreModule,
	ProviderModule,
	ServiceModule,
	MetricsModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// StoreModule provides the seeded in-memory record store.
var StoreModule = fx.Provide(
	fx.Annotate(
		func(log *zap.Logger) *memory.Store {
			log.Info("Using seeded in-memory store")
			return memory.NewSeededStore()
		},
		fx.As(new(outbound.RecordStore)),
	),
)

// ProviderModule provides the ordered recipe provider chain. Nebius is
// the primary, OpenAI the secondary; order defines provenance.
var ProviderModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) []outbound.RecipeProvider {
		return []outbound.RecipeProvider{
			nebius.NewClient(cfg.AI, log),
			openai.NewClient(cfg.AI, log),
		}
	},
)

// ServiceModule provides the recommendation orchestrator.
var ServiceModule = fx.Provide(
	func(
		store outbound.RecordStore,
		providers []outbound.RecipeProvider,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecommendationService {
		return recommend.NewService(store, providers, cfg.AI.RequestTimeout, log)
	},
)

// MetricsModule provides the Prometheus registry and HTTP collectors.
var MetricsModule = fx.Provide(
	func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg
	},
	func(reg *prometheus.Registry) *middleware.Metrics {
		return middleware.NewMetrics(reg)
	},
)

// HTTPModule provides the handler set and the HTTP server.
var HTTPModule = fx.Provide(
	func(
		store outbound.RecordStore,
		recommender inbound.RecommendationService,
		log *zap.Logger,
	) (*handlers.Handlers, error) {
		// All endpoints act on behalf of the seeded default user.
		owner, err := store.GetUserByUsername(context.Background(), "alex")
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, fmt.Errorf("default user not seeded")
		}
		return handlers.New(store, recommender, log, owner.ID), nil
	},
	func(
		cfg *config.Config,
		h *handlers.Handlers,
		metrics *middleware.Metrics,
		reg *prometheus.Registry,
		log *zap.Logger,
	) *server.Server {
		return server.New(cfg, h, metrics, reg, log)
	},
)

// LifecycleModule registers the start and stop hooks.
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks starts the HTTP server on application start
// and drains it on stop.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting MealCraft",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down MealCraft")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
