package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application"
	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

type fakeDirectory struct {
	books map[int64]domain.BookSummary
}

func newFakeDirectory(books ...domain.BookSummary) *fakeDirectory {
	d := &fakeDirectory{books: map[int64]domain.BookSummary{}}
	for _, book := range books {
		d.books[book.ID] = book
	}
	return d
}

func (d *fakeDirectory) LookupBook(_ context.Context, bookID int64) (*domain.BookSummary, error) {
	if book, ok := d.books[bookID]; ok {
		clone := book
		return &clone, nil
	}
	return nil, ports.ErrUnknownBook
}

func testBooks() *fakeDirectory {
	return newFakeDirectory(
		domain.BookSummary{ID: 10, Title: "The Go Programming Language", Author: "Donovan", RentalPrice: 3.5},
		domain.BookSummary{ID: 20, Title: "Designing Data-Intensive Applications", Author: "Kleppmann", RentalPrice: 4.0},
	)
}

func TestAddCartLine_UnknownBookRejected(t *testing.T) {
	repo := NewRepository(testBooks())

	_, err := repo.AddCartLine(context.Background(), 999)
	require.ErrorIs(t, err, ports.ErrUnknownBook)

	lines, err := repo.ListCartLines(context.Background())
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestListCartLines_NewestFirst(t *testing.T) {
	repo := NewRepository(testBooks())
	ctx := context.Background()

	first, err := repo.AddCartLine(ctx, 10)
	require.NoError(t, err)
	second, err := repo.AddCartLine(ctx, 20)
	require.NoError(t, err)

	lines, err := repo.ListCartLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, second.Line.ID, lines[0].Line.ID)
	require.Equal(t, first.Line.ID, lines[1].Line.ID)
	require.Equal(t, "Designing Data-Intensive Applications", lines[0].Book.Title)
}

func TestRemoveCartLine_Idempotent(t *testing.T) {
	repo := NewRepository(testBooks())
	ctx := context.Background()

	line, err := repo.AddCartLine(ctx, 10)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveCartLine(ctx, line.Line.ID))
	require.NoError(t, repo.RemoveCartLine(ctx, line.Line.ID))

	lines, err := repo.ListCartLines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestTransact_RollsBackOnError(t *testing.T) {
	repo := NewRepository(testBooks())
	ctx := context.Background()

	_, err := repo.AddCartLine(ctx, 10)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.Transact(ctx, func(r ports.Repository) error {
		order, err := domain.NewOrder(nil, 10, time.Now(), nil)
		require.NoError(t, err)
		if _, err := r.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := r.ClearCart(ctx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	lines, err := repo.ListCartLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1, "cart restored after rollback")
	orders, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders, "inserted order rolled back")
}

func TestPurgeStaleCartLines(t *testing.T) {
	repo := NewRepository(testBooks())
	ctx := context.Background()

	_, err := repo.AddCartLine(ctx, 10)
	require.NoError(t, err)
	_, err = repo.AddCartLine(ctx, 20)
	require.NoError(t, err)

	purged, err := repo.PurgeStaleCartLines(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 2, purged)

	purged, err = repo.PurgeStaleCartLines(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Zero(t, purged)
}

func TestPlacementScenario_CartBecomesOrders(t *testing.T) {
	repo := NewRepository(testBooks())
	svc := application.NewService(repo, NewAttemptStore())
	ctx := context.Background()

	_, err := svc.AddCartLine(ctx, 10)
	require.NoError(t, err)
	_, err = svc.AddCartLine(ctx, 20)
	require.NoError(t, err)

	result, err := svc.PlaceOrder(ctx, types.PlaceOrderInput{
		OwnerID:    int64Ptr(7),
		RentalDays: int32Ptr(14),
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, result.OrdersCreated)

	lines, err := svc.ListCartLines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, projection := range orders {
		require.Equal(t, domain.PaymentPending, projection.Order.PaymentStatus)
		require.Equal(t, domain.DeliveryPending, projection.Order.DeliveryStatus)
		require.Equal(t, result.PlacedAt, projection.Order.PlacedAt)
		require.NotEmpty(t, projection.Book.Title)
	}
}

func TestConcurrentPlacement_CartConsumedOnce(t *testing.T) {
	repo := NewRepository(testBooks())
	svc := application.NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.AddCartLine(ctx, 10)
	require.NoError(t, err)
	_, err = svc.AddCartLine(ctx, 20)
	require.NoError(t, err)

	const racers = 8
	results := make([]error, racers)
	var group errgroup.Group
	for i := 0; i < racers; i++ {
		i := i
		group.Go(func() error {
			_, err := svc.PlaceOrder(ctx, types.PlaceOrderInput{
				IdempotencyKey: fmt.Sprintf("racer-%d", i),
			})
			results[i] = err
			return nil
		})
	}
	require.NoError(t, group.Wait())

	var won int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, application.ErrEmptyCart)
		}
	}
	require.Equal(t, 1, won, "exactly one racer consumes the cart")

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2, "each cart line became exactly one order")
}

func int64Ptr(v int64) *int64 { return &v }
func int32Ptr(v int32) *int32 { return &v }
