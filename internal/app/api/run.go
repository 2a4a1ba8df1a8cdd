package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogmemory "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/shelfwise/rental-api/internal/domains/catalog/application"
	catalogports "github.com/shelfwise/rental-api/internal/domains/catalog/ports"
	checkoutcatalog "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/catalog"
	checkoutmemory "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/shelfwise/rental-api/internal/domains/checkout/application"
	checkoutports "github.com/shelfwise/rental-api/internal/domains/checkout/ports"
	"github.com/shelfwise/rental-api/internal/platform/migrations"
	platformobservability "github.com/shelfwise/rental-api/internal/platform/observability"
	platformpostgres "github.com/shelfwise/rental-api/internal/platform/postgres"
)

// Run boots the rental HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "rental-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	deps, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	if ttl := cfg.CartTTL(); ttl > 0 {
		go purgeStaleCartLines(ctx, deps.checkoutRepo, ttl, logger)
	}

	catalogService := catalogobs.New(
		catalogapp.NewService(deps.catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	checkoutService := checkoutobs.New(
		checkoutapp.NewService(deps.checkoutRepo, deps.attempts, checkoutapp.WithLogger(logger)),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	var placement checkoutports.PlacementOrchestrator = checkoutworkflows.NewInlinePlacement(checkoutService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline placement", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		placement = checkoutworkflows.NewTemporalPlacement(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewRouter(serviceName, catalogService, checkoutService, placement)
	addr := ":" + cfg.Port
	logger.Info("rental API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("rental API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type repositories struct {
	catalogRepo  catalogports.Repository
	checkoutRepo checkoutports.Repository
	attempts     checkoutports.PlacementAttemptStore
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate schema, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return memoryRepositories(), func() {}
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		catalogRepo:  catalogpostgres.NewRepository(db),
		checkoutRepo: checkoutpostgres.NewRepository(db),
		attempts:     checkoutpostgres.NewAttemptStore(db),
	}, func() { _ = sqlDB.Close() }
}

// purgeStaleCartLines drops abandoned cart lines once per hour. The loop runs
// only when CART_TTL_HOURS is set; cmd/cart-purger covers deployments that
// schedule the cleanup externally.
func purgeStaleCartLines(ctx context.Context, repo checkoutports.Repository, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeCartOnce(ctx, repo, ttl, logger)
		}
	}
}

func purgeCartOnce(ctx context.Context, repo checkoutports.Repository, ttl time.Duration, logger *slog.Logger) {
	purged, err := repo.PurgeStaleCartLines(ctx, time.Now().Add(-ttl))
	if err != nil {
		logger.Warn("stale cart purge failed", slog.String("error", err.Error()))
		return
	}
	if purged > 0 {
		logger.Info("stale cart lines purged", slog.Int64("count", purged))
	}
}

func memoryRepositories() repositories {
	catalogRepo := catalogmemory.NewRepository()
	return repositories{
		catalogRepo:  catalogRepo,
		checkoutRepo: checkoutmemory.NewRepository(checkoutcatalog.NewDirectory(catalogRepo)),
		attempts:     checkoutmemory.NewAttemptStore(),
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
