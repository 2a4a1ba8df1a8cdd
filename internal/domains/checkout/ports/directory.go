package ports

import (
	"context"

	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
)

// BookDirectory resolves book display fields for adapters that cannot join
// against the catalog store directly (the in-memory repository). Soft-deleted
// books still resolve so order history keeps rendering; a missing book yields
// ErrUnknownBook.
type BookDirectory interface {
	LookupBook(ctx context.Context, bookID int64) (*domain.BookSummary, error)
}
