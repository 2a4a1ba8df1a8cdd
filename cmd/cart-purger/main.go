package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	checkoutpostgres "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/persistence/postgres"
	platformpostgres "github.com/shelfwise/rental-api/internal/platform/postgres"
)

// DefaultCartTTL bounds how long an abandoned cart line survives.
const DefaultCartTTL = 72 * time.Hour

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge cart lines")
	}

	repo := checkoutpostgres.NewRepository(db)
	cutoff := time.Now().Add(-cartTTLFromEnv())
	purged, err := repo.PurgeStaleCartLines(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge cart lines: %v", err)
	}
	log.Printf("cart purge completed: %d stale lines removed", purged)
}

func cartTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("CART_TTL_HOURS"))
	if raw == "" {
		return DefaultCartTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return DefaultCartTTL
	}
	return time.Duration(hours) * time.Hour
}
