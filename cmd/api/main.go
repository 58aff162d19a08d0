package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-prioritizer/internal/api/http"
	"github.com/spec-kit/ticket-prioritizer/internal/api/http/handlers"
	"github.com/spec-kit/ticket-prioritizer/internal/config"
	"github.com/spec-kit/ticket-prioritizer/internal/events"
	"github.com/spec-kit/ticket-prioritizer/internal/observability"
	"github.com/spec-kit/ticket-prioritizer/internal/persistence"
	"github.com/spec-kit/ticket-prioritizer/internal/priority"
	"github.com/spec-kit/ticket-prioritizer/internal/service"
	"github.com/spec-kit/ticket-prioritizer/internal/signals"
	"github.com/spec-kit/ticket-prioritizer/internal/store"
	"github.com/spec-kit/ticket-prioritizer/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	source := buildSignalSource(cfg, logger)

	var redisCache *persistence.Redis
	if cfg.Signals.CacheEnabled {
		redisCache = persistence.NewRedis(cfg.Redis, logger)
		defer redisCache.Close()
		source = signals.NewCachedSource(source, redisCache.Client, cfg.Signals.CacheTTL, logger)
	}

	ticketStore := store.NewTicketStore()
	engine := priority.NewEngine(cfg.Scoring)
	dispatcher := events.NewInMemoryDispatcher()

	prioritizationService := service.NewPrioritizationService(service.Dependencies{
		Store:      ticketStore,
		Engine:     engine,
		Source:     source,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	escalationService := service.NewEscalationService(logger, metrics, cfg.Escalation)
	worker.StartEscalationWorker(ctx, dispatcher, escalationService, logger)

	count, err := prioritizationService.Reset(ctx)
	if err != nil {
		logger.Fatal("failed to seed sample tickets", zap.Error(err))
	}
	logger.Info("seeded sample tickets", zap.Int("count", count))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redisCache),
		Tickets:   handlers.NewTicketsHandler(prioritizationService),
		Analytics: handlers.NewAnalyticsHandler(prioritizationService),
		System:    handlers.NewSystemHandler(prioritizationService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildSignalSource(cfg *config.Config, logger *zap.Logger) signals.Source {
	switch cfg.Signals.Provider {
	case "openai":
		if cfg.Signals.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY missing, falling back to keyword signal source")
			return signals.NewKeywordSource()
		}
		return signals.NewOpenAISource(cfg.Signals, logger)
	default:
		return signals.NewKeywordSource()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
