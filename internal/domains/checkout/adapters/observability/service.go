package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

const tracerName = "github.com/shelfwise/rental-api/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

// WithMeter injects the meter used to create the service instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core checkout service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

func (s *Service) ListCartLines(ctx context.Context) ([]*types.CartLineProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.ListCartLines")
	defer span.End()

	result, err := s.inner.ListCartLines(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list cart lines")
	}
	span.SetAttributes(attribute.Int("cart.lines.count", len(result)))
	return result, nil
}

func (s *Service) AddCartLine(ctx context.Context, bookID int64) (*types.CartLineProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.AddCartLine",
		trace.WithAttributes(attribute.Int64("book.id", bookID)))
	defer span.End()

	result, err := s.inner.AddCartLine(ctx, bookID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add cart line", slog.Int64("book.id", bookID))
	}
	s.metrics.recordLineAdded(ctx)
	if result != nil && result.Line != nil {
		s.logInfo(ctx, "cart line added", slog.Int64("line.id", result.Line.ID), slog.Int64("book.id", bookID))
	}
	return result, nil
}

func (s *Service) RemoveCartLine(ctx context.Context, lineID int64) error {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.RemoveCartLine",
		trace.WithAttributes(attribute.Int64("line.id", lineID)))
	defer span.End()

	if err := s.inner.RemoveCartLine(ctx, lineID); err != nil {
		return s.handleError(ctx, span, err, "failed to remove cart line", slog.Int64("line.id", lineID))
	}
	s.metrics.recordLineRemoved(ctx)
	return nil
}

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order")
	}
	if result != nil {
		span.SetAttributes(
			attribute.Int("orders.created", int(result.OrdersCreated)),
			attribute.Bool("placement.replayed", result.Replayed),
		)
		if !result.Replayed {
			s.metrics.recordOrdersPlaced(ctx, int64(result.OrdersCreated))
		}
		s.logInfo(ctx, "order placed",
			slog.Int("orders.created", int(result.OrdersCreated)),
			slog.Bool("replayed", result.Replayed))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) UpdateOrderStatuses(ctx context.Context, id int64, payment domain.PaymentStatus, delivery domain.DeliveryStatus) (*types.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.UpdateOrderStatuses",
		trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.UpdateOrderStatuses(ctx, id, payment, delivery)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order statuses", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order statuses updated",
		slog.Int64("order.id", id),
		slog.String("payment", string(payment)),
		slog.String("delivery", string(delivery)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	linesAdded   metric.Int64Counter
	linesRemoved metric.Int64Counter
	ordersPlaced metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	linesAdded, _ := m.Int64Counter("checkout.cart.lines_added", metric.WithDescription("Number of cart lines added"))
	linesRemoved, _ := m.Int64Counter("checkout.cart.lines_removed", metric.WithDescription("Number of cart lines removed"))
	ordersPlaced, _ := m.Int64Counter("checkout.orders.placed", metric.WithDescription("Number of orders placed"))
	return serviceMetrics{linesAdded: linesAdded, linesRemoved: linesRemoved, ordersPlaced: ordersPlaced}
}

func (m serviceMetrics) recordLineAdded(ctx context.Context)   { addCounter(ctx, m.linesAdded, 1) }
func (m serviceMetrics) recordLineRemoved(ctx context.Context) { addCounter(ctx, m.linesRemoved, 1) }
func (m serviceMetrics) recordOrdersPlaced(ctx context.Context, n int64) {
	addCounter(ctx, m.ordersPlaced, n)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
