//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	catalogpostgres "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/shelfwise/rental-api/internal/domains/catalog/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/application"
	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
	"github.com/shelfwise/rental-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("rental_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedBook(t *testing.T, db *gorm.DB, title string) int64 {
	t.Helper()
	book, err := catalogdomain.NewBook(0, title, "Author", 2.5)
	require.NoError(t, err)
	saved, err := catalogpostgres.NewRepository(db).SaveBook(context.Background(), book)
	require.NoError(t, err)
	return saved.ID
}

func TestCheckoutRepository_AddCartLineEnforcesForeignKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.AddCartLine(ctx, 424242)
	assert.ErrorIs(t, err, ports.ErrUnknownBook)

	bookID := seedBook(t, db, "Dune")
	line, err := repo.AddCartLine(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, bookID, line.Line.BookID)
	assert.Equal(t, "Dune", line.Book.Title)
}

func TestCheckoutRepository_PlacementIsAtomic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	bookA := seedBook(t, db, "Book A")
	bookB := seedBook(t, db, "Book B")
	_, err := repo.AddCartLine(ctx, bookA)
	require.NoError(t, err)
	_, err = repo.AddCartLine(ctx, bookB)
	require.NoError(t, err)

	// Failure mid-transaction must restore cart and orders.
	boom := errors.New("boom")
	err = repo.Transact(ctx, func(r ports.Repository) error {
		lines, err := r.ListCartLinesLocked(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		for _, line := range lines {
			order, err := domain.NewOrder(nil, line.BookID, time.Now().Truncate(time.Second), nil)
			require.NoError(t, err)
			if _, err := r.InsertOrder(ctx, order); err != nil {
				return err
			}
		}
		if err := r.ClearCart(ctx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	lines, err := repo.ListCartLines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 2, "cart restored after rollback")
	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "orders rolled back")

	// The full placement workflow commits everything together.
	svc := application.NewService(repo, NewAttemptStore(db))
	owner := int64(7)
	days := int32(14)
	result, err := svc.PlaceOrder(ctx, types.PlaceOrderInput{
		OwnerID:        &owner,
		RentalDays:     &days,
		IdempotencyKey: "req-1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.OrdersCreated)

	lines, err = repo.ListCartLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
	orders, err = repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, projection := range orders {
		assert.Equal(t, domain.PaymentPending, projection.Order.PaymentStatus)
		assert.Equal(t, domain.DeliveryPending, projection.Order.DeliveryStatus)
		assert.True(t, projection.Order.PlacedAt.Equal(result.PlacedAt))
	}

	// Replay via the stored attempt.
	replay, err := svc.PlaceOrder(ctx, types.PlaceOrderInput{IdempotencyKey: "req-1"})
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
	assert.EqualValues(t, 2, replay.OrdersCreated)
}

func TestCheckoutRepository_OrderHistorySurvivesSoftDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	bookID := seedBook(t, db, "Retired Title")
	order, err := domain.NewOrder(nil, bookID, time.Now().Truncate(time.Second), nil)
	require.NoError(t, err)
	orderID, err := repo.InsertOrder(ctx, order)
	require.NoError(t, err)

	require.NoError(t, catalogpostgres.NewRepository(db).SoftDeleteBook(ctx, bookID))

	projection, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "Retired Title", projection.Book.Title, "joins bypass the soft-delete scope")
}

func TestCheckoutRepository_UpdateOrderStatuses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	bookID := seedBook(t, db, "Dune")
	order, err := domain.NewOrder(nil, bookID, time.Now().Truncate(time.Second), nil)
	require.NoError(t, err)
	orderID, err := repo.InsertOrder(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateOrderStatuses(ctx, orderID, domain.PaymentPaid, domain.DeliveryShipped))

	projection, err := repo.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, projection.Order.PaymentStatus)
	assert.Equal(t, domain.DeliveryShipped, projection.Order.DeliveryStatus)

	assert.ErrorIs(t, repo.UpdateOrderStatuses(ctx, 99999, domain.PaymentPaid, domain.DeliveryPending), ports.ErrNotFound)
}

func TestAttemptStore_DuplicateKeyHandling(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewAttemptStore(db)
	ctx := context.Background()

	placedAt := time.Now().Truncate(time.Second)
	first, err := store.Save(ctx, ports.PlacementAttempt{Key: "req-1", CartHash: "abc", OrdersCreated: 2, PlacedAt: placedAt})
	require.NoError(t, err)
	assert.False(t, first.CreatedAt.IsZero())

	same, err := store.Save(ctx, ports.PlacementAttempt{Key: "req-1", CartHash: "abc", OrdersCreated: 5, PlacedAt: placedAt})
	require.NoError(t, err)
	assert.EqualValues(t, 2, same.OrdersCreated, "original attempt wins")

	stored, err := store.Save(ctx, ports.PlacementAttempt{Key: "req-1", CartHash: "xyz"})
	assert.ErrorIs(t, err, ports.ErrAttemptConflict)
	require.NotNil(t, stored)
	assert.Equal(t, "abc", stored.CartHash)

	missing, err := store.Get(ctx, "req-unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
