package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/memory"
	checkoutcatalog "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/catalog"
	checkoutmemory "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/persistence/postgres"
	checkoutapp "github.com/shelfwise/rental-api/internal/domains/checkout/application"
	checkoutports "github.com/shelfwise/rental-api/internal/domains/checkout/ports"
	platformobservability "github.com/shelfwise/rental-api/internal/platform/observability"
	platformpostgres "github.com/shelfwise/rental-api/internal/platform/postgres"
	checkoutactivities "github.com/shelfwise/rental-api/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/shelfwise/rental-api/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "rental-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	checkoutRepo, attempts, cleanupRepo := buildCheckoutDependencies(ctx, logger)
	defer cleanupRepo()
	checkoutService := checkoutobs.New(
		checkoutapp.NewService(checkoutRepo, attempts, checkoutapp.WithLogger(logger)),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)
	placementActivities := checkoutactivities.NewActivities(checkoutService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(placementActivities.PlaceOrder, activity.RegisterOptions{Name: checkoutactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildCheckoutDependencies(ctx context.Context, logger *slog.Logger) (checkoutports.Repository, checkoutports.PlacementAttemptStore, func()) {
	dsn := os.Getenv("POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory checkout repository")
		return memoryCheckoutDependencies()
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		return memoryCheckoutDependencies()
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		return memoryCheckoutDependencies()
	}
	logger.Info("worker checkout repository configured with postgres")
	return checkoutpostgres.NewRepository(db), checkoutpostgres.NewAttemptStore(db), func() { _ = sqlDB.Close() }
}

func memoryCheckoutDependencies() (checkoutports.Repository, checkoutports.PlacementAttemptStore, func()) {
	directory := checkoutcatalog.NewDirectory(catalogmemory.NewRepository())
	return checkoutmemory.NewRepository(directory), checkoutmemory.NewAttemptStore(), func() {}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
