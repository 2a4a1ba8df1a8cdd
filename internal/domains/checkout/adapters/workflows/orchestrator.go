package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	checkouttypes "github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
	checkoutworkflows "github.com/shelfwise/rental-api/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.PlacementOrchestrator = (*TemporalPlacement)(nil)
	_ ports.PlacementOrchestrator = (*InlinePlacement)(nil)
)

// TemporalPlacement starts placement workflows on a Temporal cluster.
type TemporalPlacement struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPlacement wires a Temporal client into the orchestrator.
func NewTemporalPlacement(c client.Client) *TemporalPlacement {
	return &TemporalPlacement{client: c, taskQueue: checkoutworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the Temporal workflow that converts the cart into orders.
// An idempotency key pins the workflow ID, so a retried request attaches to
// the already-running execution instead of starting a second placement.
func (o *TemporalPlacement) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.PlacementResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal placement not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildPlacementWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.OrderPlacementWorkflow,
		checkoutworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var result checkouttypes.PlacementResult
			if err := existingRun.Get(ctx, &result); err != nil {
				return nil, err
			}
			return &result, nil
		}
		return nil, err
	}
	var result checkouttypes.PlacementResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InlinePlacement executes the service directly without Temporal, useful for
// tests or dev fallbacks.
type InlinePlacement struct {
	service ports.Service
}

// NewInlinePlacement wraps the checkout service for synchronous execution.
func NewInlinePlacement(service ports.Service) *InlinePlacement {
	return &InlinePlacement{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlinePlacement) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.PlacementResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline placement not configured")
	}
	return o.service.PlaceOrder(ctx, input)
}

func buildPlacementWorkflowID(input checkouttypes.PlaceOrderInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-placement-%s-%s", uuid.NewString(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep workflow IDs readable while remaining deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return "untraced-" + uuid.NewString()
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
