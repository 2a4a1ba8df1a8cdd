package ports

import (
	"context"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
)

// PlacementOrchestrator starts the cart-to-order workflow, either inline or
// on a durable workflow engine.
type PlacementOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error)
}
