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

	"github.com/shelfwise/rental-api/internal/domains/catalog/application/types"
	"github.com/shelfwise/rental-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
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

// New wraps the core catalog service.
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

func (s *Service) ListBooks(ctx context.Context) ([]*types.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListBooks")
	defer span.End()

	result, err := s.inner.ListBooks(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list books")
	}
	span.SetAttributes(attribute.Int("catalog.books.count", len(result)))
	return result, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (*types.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBook",
		trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	result, err := s.inner.GetBook(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load book", slog.Int64("book.id", id))
	}
	return result, nil
}

func (s *Service) CreateBook(ctx context.Context, input types.BookMutationInput) (*types.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateBook")
	defer span.End()

	result, err := s.inner.CreateBook(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create book")
	}
	if result != nil && result.Book != nil {
		s.metrics.recordBookCreated(ctx)
		s.logInfo(ctx, "book created", slog.Int64("book.id", result.Book.ID), slog.String("title", result.Book.Title))
	}
	return result, nil
}

func (s *Service) UpdateBook(ctx context.Context, id int64, input types.BookMutationInput) (*types.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateBook",
		trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	result, err := s.inner.UpdateBook(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update book", slog.Int64("book.id", id))
	}
	s.logInfo(ctx, "book updated", slog.Int64("book.id", id))
	return result, nil
}

func (s *Service) SoftDeleteBook(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SoftDeleteBook",
		trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	if err := s.inner.SoftDeleteBook(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to soft-delete book", slog.Int64("book.id", id))
	}
	s.metrics.recordBookDeleted(ctx)
	s.logInfo(ctx, "book soft-deleted", slog.Int64("book.id", id))
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*types.CategoryProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	result, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("catalog.categories.count", len(result)))
	return result, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*types.CategoryProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateCategory",
		trace.WithAttributes(attribute.String("category.name", name)))
	defer span.End()

	result, err := s.inner.CreateCategory(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category", slog.String("category.name", name))
	}
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
	booksCreated metric.Int64Counter
	booksDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	booksCreated, _ := m.Int64Counter("catalog.books.created", metric.WithDescription("Number of books created"))
	booksDeleted, _ := m.Int64Counter("catalog.books.soft_deleted", metric.WithDescription("Number of books soft-deleted"))
	return serviceMetrics{booksCreated: booksCreated, booksDeleted: booksDeleted}
}

func (m serviceMetrics) recordBookCreated(ctx context.Context) { addCounter(ctx, m.booksCreated, 1) }
func (m serviceMetrics) recordBookDeleted(ctx context.Context) { addCounter(ctx, m.booksDeleted, 1) }

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
