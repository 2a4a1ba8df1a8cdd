package application

import (
	"errors"
	"fmt"

	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
)

var (
	// ErrEmptyCart signals placement was attempted with no cart lines. The
	// cart and orders are untouched; the caller can correct and retry.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidInput signals the request violated a checkout invariant.
	ErrInvalidInput = errors.New("invalid checkout input")
)

// PlacementError reports a failed multi-row placement. Because the workflow
// runs inside one transaction, Created counts orders that remain durable
// after the scope unwinds, which is how callers judge retry safety.
type PlacementError struct {
	Requested int32
	Created   int32
	Stage     domain.PlacementStage
	Err       error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement failed during %s: %d of %d orders durably created: %v",
		e.Stage, e.Created, e.Requested, e.Err)
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidBookID) ||
		errors.Is(err, domain.ErrInvalidPaymentStatus) ||
		errors.Is(err, domain.ErrInvalidDeliveryStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
