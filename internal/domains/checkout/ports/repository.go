package ports

import (
	"context"
	"errors"
	"time"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
)

var (
	// ErrNotFound signals the requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrUnknownBook signals a cart or order operation references a book that
	// does not exist (referential failure, not retried).
	ErrUnknownBook = errors.New("book does not exist")
	// ErrStorage wraps connectivity or constraint failures from the backing
	// store; callers must not assume any operation succeeded.
	ErrStorage = errors.New("checkout storage failure")
)

// Repository persists cart lines and orders.
//
// Transact runs fn against a repository bound to a single transactional
// scope: either every write inside fn commits, or none do. Placement relies
// on this so the cart is never cleared before its orders are durable.
type Repository interface {
	// ListCartLines returns cart lines joined with book display fields,
	// newest line first. An empty cart yields an empty slice, never an error.
	ListCartLines(ctx context.Context) ([]*types.CartLineProjection, error)
	// ListCartLinesLocked reads all cart lines for update; inside Transact
	// the rows stay locked until the scope ends, serializing concurrent
	// placements over the shared cart.
	ListCartLinesLocked(ctx context.Context) ([]*domain.CartLine, error)
	// AddCartLine creates a line for the book or fails with ErrUnknownBook.
	AddCartLine(ctx context.Context, bookID int64) (*types.CartLineProjection, error)
	// RemoveCartLine deletes the line if present; removing a missing id is
	// not an error.
	RemoveCartLine(ctx context.Context, lineID int64) error
	// ClearCart deletes all cart lines unconditionally.
	ClearCart(ctx context.Context) error
	// PurgeStaleCartLines drops lines added before the cutoff and reports
	// how many were removed.
	PurgeStaleCartLines(ctx context.Context, cutoff time.Time) (int64, error)

	// InsertOrder creates one order row and returns its identifier.
	InsertOrder(ctx context.Context, order *domain.Order) (int64, error)
	// ListOrders returns orders joined with book display fields, newest
	// placement first. The join ignores book soft-deletion so history keeps
	// rendering.
	ListOrders(ctx context.Context) ([]*types.OrderProjection, error)
	// GetOrder returns the order or ErrNotFound.
	GetOrder(ctx context.Context, id int64) (*types.OrderProjection, error)
	// UpdateOrderStatuses advances the payment/delivery statuses.
	UpdateOrderStatuses(ctx context.Context, id int64, payment domain.PaymentStatus, delivery domain.DeliveryStatus) error

	Transact(ctx context.Context, fn func(Repository) error) error
}
