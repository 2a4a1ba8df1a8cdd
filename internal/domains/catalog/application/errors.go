package application

import (
	"errors"
	"fmt"

	"github.com/shelfwise/rental-api/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the request violated a catalog invariant.
var ErrInvalidInput = errors.New("invalid catalog input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrEmptyAuthor) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrEmptyCategoryName) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
