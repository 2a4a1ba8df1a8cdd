package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	checkoutapp "github.com/shelfwise/rental-api/internal/domains/checkout/application"
	checkouttypes "github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	checkoutports "github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

// PlaceOrderActivityName converts the cart into orders inside one transaction.
const PlaceOrderActivityName = "checkout.activities.PlaceOrder"

// Application error types surfaced to the retry policy. Business failures are
// terminal: retrying cannot change the cart contents or the stored attempt.
const (
	EmptyCartErrorType       = "EmptyCart"
	UnknownBookErrorType     = "UnknownBook"
	AttemptConflictErrorType = "AttemptConflict"
	PlacementFailedErrorType = "PlacementFailed"
)

// Activities groups activities that operate on the checkout bounded context.
type Activities struct {
	service checkoutports.Service
}

// NewActivities wires the checkout service into the Temporal activities bundle.
func NewActivities(service checkoutports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the transactional cart-to-order conversion and returns the
// placement result.
func (a *Activities) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.PlacementResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized")
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started")
	result, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "error", err)
		return nil, classifyError(err)
	}
	if result != nil {
		logger.Info("PlaceOrder activity completed", "ordersCreated", result.OrdersCreated, "replayed", result.Replayed)
	} else {
		logger.Info("PlaceOrder activity completed")
	}
	return result, nil
}

// classifyError tags business failures with an application error type so the
// retry policy can tell them apart from transient storage errors.
func classifyError(err error) error {
	var placementErr *checkoutapp.PlacementError
	switch {
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return temporal.NewApplicationErrorWithCause(err.Error(), EmptyCartErrorType, err)
	case errors.Is(err, checkoutports.ErrUnknownBook):
		return temporal.NewApplicationErrorWithCause(err.Error(), UnknownBookErrorType, err)
	case errors.Is(err, checkoutports.ErrAttemptConflict):
		return temporal.NewApplicationErrorWithCause(err.Error(), AttemptConflictErrorType, err)
	case errors.As(err, &placementErr):
		return temporal.NewApplicationErrorWithCause(err.Error(), PlacementFailedErrorType, err)
	default:
		return err
	}
}
