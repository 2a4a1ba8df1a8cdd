package ports

import (
	"context"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
)

// Service exposes cart and order use cases to adapters.
type Service interface {
	ListCartLines(ctx context.Context) ([]*types.CartLineProjection, error)
	AddCartLine(ctx context.Context, bookID int64) (*types.CartLineProjection, error)
	RemoveCartLine(ctx context.Context, lineID int64) error
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error)
	ListOrders(ctx context.Context) ([]*types.OrderProjection, error)
	UpdateOrderStatuses(ctx context.Context, id int64, payment domain.PaymentStatus, delivery domain.DeliveryStatus) (*types.OrderProjection, error)
}
