// Package types carries the checkout use-case inputs and projections shared
// between ports, application, and transport adapters.
package types

import (
	"time"

	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
)

// CartLineProjection joins a cart line with its book's display fields.
type CartLineProjection struct {
	Line *domain.CartLine
	Book domain.BookSummary
}

// OrderProjection joins an order with its book's display fields.
type OrderProjection struct {
	Order *domain.Order
	Book  domain.BookSummary
}

// PlaceOrderInput is the placement request. OwnerID is nullable; there is no
// authenticated-user concept. RentalDays is persisted verbatim when present;
// no duration-to-price mapping is applied. IdempotencyKey, when supplied,
// makes retries of the same placement safe.
type PlaceOrderInput struct {
	OwnerID        *int64
	RentalDays     *int32
	IdempotencyKey string
}

// PlacementResult reports a successful placement.
type PlacementResult struct {
	OrdersCreated int32
	OrderIDs      []int64
	PlacedAt      time.Time
	// Replayed marks a result served from a stored idempotent attempt.
	Replayed bool
}
