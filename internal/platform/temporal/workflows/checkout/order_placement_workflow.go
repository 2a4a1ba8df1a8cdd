package checkout

import (
	"go.temporal.io/sdk/workflow"

	checkouttypes "github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "checkout.workflows.OrderPlacement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing placements.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Command checkouttypes.PlaceOrderInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities needed to convert the
// cart into orders.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*checkouttypes.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID)...)
	result, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	if result != nil {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "ordersCreated", result.OrdersCreated)...)
	} else {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID)...)
	}
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
