package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

// Service orchestrates the checkout bounded context: cart maintenance, order
// listing, and the cart-to-order placement workflow.
type Service struct {
	repo     ports.Repository
	attempts ports.PlacementAttemptStore
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes the checkout service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the checkout service. The attempt store is optional; when
// nil, idempotency keys on placement requests are ignored.
func NewService(repo ports.Repository, attempts ports.PlacementAttemptStore, opts ...Option) *Service {
	s := &Service{repo: repo, attempts: attempts, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// ListCartLines returns the current cart joined with book display fields.
func (s *Service) ListCartLines(ctx context.Context) ([]*types.CartLineProjection, error) {
	lines, err := s.repo.ListCartLines(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return lines, nil
}

// AddCartLine records one rental intent for the book.
func (s *Service) AddCartLine(ctx context.Context, bookID int64) (*types.CartLineProjection, error) {
	if bookID <= 0 {
		return nil, mapError(domain.ErrInvalidBookID)
	}
	line, err := s.repo.AddCartLine(ctx, bookID)
	if err != nil {
		return nil, mapError(err)
	}
	return line, nil
}

// RemoveCartLine drops the line; removing a missing id is not an error.
func (s *Service) RemoveCartLine(ctx context.Context, lineID int64) error {
	if err := s.repo.RemoveCartLine(ctx, lineID); err != nil {
		return mapError(err)
	}
	return nil
}

// PlaceOrder converts the current cart into orders atomically: every line
// becomes one order sharing a single second-precision timestamp and pending
// statuses, then the cart is cleared. Any failure unwinds the whole scope, so
// the cart is never cleared before its orders are durable.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" && s.attempts != nil {
		stored, err := s.attempts.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			return s.replayAttempt(ctx, input, stored)
		}
	}

	var result *types.PlacementResult
	var cartHash string
	err := s.repo.Transact(ctx, func(r ports.Repository) error {
		placement := domain.NewPlacement()
		lines, err := r.ListCartLinesLocked(ctx)
		if err != nil {
			_ = placement.Fail()
			return err
		}
		if len(lines) == 0 {
			_ = placement.Fail()
			return ErrEmptyCart
		}
		if err := placement.Advance(); err != nil {
			return err
		}

		placedAt := s.now().Truncate(time.Second)
		requested := int32(len(lines))
		orderIDs := make([]int64, 0, len(lines))
		for _, line := range lines {
			order, err := domain.NewOrder(input.OwnerID, line.BookID, placedAt, input.RentalDays)
			if err != nil {
				_ = placement.Fail()
				return &PlacementError{Requested: requested, Created: 0, Stage: domain.StageInserting, Err: err}
			}
			id, err := r.InsertOrder(ctx, order)
			if err != nil {
				_ = placement.Fail()
				return &PlacementError{Requested: requested, Created: 0, Stage: domain.StageInserting, Err: err}
			}
			orderIDs = append(orderIDs, id)
		}

		if err := placement.Advance(); err != nil {
			return err
		}
		if err := r.ClearCart(ctx); err != nil {
			_ = placement.Fail()
			return &PlacementError{Requested: requested, Created: 0, Stage: domain.StageClearing, Err: err}
		}
		if err := placement.Advance(); err != nil {
			return err
		}

		cartHash = FingerprintCart(input.OwnerID, lines)
		result = &types.PlacementResult{
			OrdersCreated: requested,
			OrderIDs:      orderIDs,
			PlacedAt:      placedAt,
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	if key != "" && s.attempts != nil {
		attempt := ports.PlacementAttempt{
			Key:           key,
			CartHash:      cartHash,
			OrdersCreated: result.OrdersCreated,
			PlacedAt:      result.PlacedAt,
		}
		// The orders are already durable; attempt-store trouble at this point
		// must not fail the placement.
		if _, err := s.attempts.Save(ctx, attempt); err != nil {
			if errors.Is(err, ports.ErrAttemptConflict) {
				s.logger.Warn("idempotency key raced a concurrent placement, returning the durable result",
					slog.String("idempotencyKey", key))
			} else {
				s.logger.Warn("failed to record placement attempt, a retry of this key may place again",
					slog.String("idempotencyKey", key), slog.String("error", err.Error()))
			}
		}
	}
	return result, nil
}

// replayAttempt serves a stored keyed placement. The current cart must be
// empty or fingerprint to the snapshot the key already consumed; the same key
// over a different cart is a conflict, never a silent success.
func (s *Service) replayAttempt(ctx context.Context, input types.PlaceOrderInput, stored *ports.PlacementAttempt) (*types.PlacementResult, error) {
	projections, err := s.repo.ListCartLines(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if len(projections) > 0 {
		lines := make([]*domain.CartLine, 0, len(projections))
		for _, projection := range projections {
			lines = append(lines, projection.Line)
		}
		if FingerprintCart(input.OwnerID, lines) != stored.CartHash {
			return nil, ports.ErrAttemptConflict
		}
	}
	return &types.PlacementResult{
		OrdersCreated: stored.OrdersCreated,
		PlacedAt:      stored.PlacedAt,
		Replayed:      true,
	}, nil
}

// ListOrders returns order history joined with book display fields.
func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// UpdateOrderStatuses advances the independently tracked payment/delivery
// statuses of an existing order.
func (s *Service) UpdateOrderStatuses(ctx context.Context, id int64, payment domain.PaymentStatus, delivery domain.DeliveryStatus) (*types.OrderProjection, error) {
	projection, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := projection.Order.UpdateStatuses(payment, delivery); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.UpdateOrderStatuses(ctx, id, projection.Order.PaymentStatus, projection.Order.DeliveryStatus); err != nil {
		return nil, mapError(err)
	}
	return s.repo.GetOrder(ctx, id)
}
