package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkouttypes "github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	checkoutactivities "github.com/shelfwise/rental-api/internal/platform/temporal/activities/checkout"
)

// RunOrderPlacementSequence executes the activity that converts the cart into
// orders. The activity itself is transactional, so retrying a failed attempt
// never leaves partial rows behind.
func RunOrderPlacementSequence(ctx workflow.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started")
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			// Business outcomes are terminal; only storage and connectivity
			// failures are worth another attempt.
			NonRetryableErrorTypes: []string{
				checkoutactivities.EmptyCartErrorType,
				checkoutactivities.UnknownBookErrorType,
				checkoutactivities.AttemptConflictErrorType,
				checkoutactivities.PlacementFailedErrorType,
			},
		},
	}

	var result checkouttypes.PlacementResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), checkoutactivities.PlaceOrderActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "ordersCreated", result.OrdersCreated)
	return &result, nil
}
