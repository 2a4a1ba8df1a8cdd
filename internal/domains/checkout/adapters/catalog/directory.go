// Package catalog adapts the catalog context's in-memory repository into the
// checkout BookDirectory port.
package catalog

import (
	"context"
	"errors"

	catalogmemory "github.com/shelfwise/rental-api/internal/domains/catalog/adapters/memory"
	catalogports "github.com/shelfwise/rental-api/internal/domains/catalog/ports"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

var _ ports.BookDirectory = (*Directory)(nil)

// Directory resolves book summaries from the catalog memory repository.
type Directory struct {
	repo *catalogmemory.Repository
}

// NewDirectory wires a directory over the shared catalog memory repository.
func NewDirectory(repo *catalogmemory.Repository) *Directory {
	return &Directory{repo: repo}
}

// LookupBook returns display fields, including for soft-deleted books.
func (d *Directory) LookupBook(ctx context.Context, bookID int64) (*domain.BookSummary, error) {
	book, err := d.repo.GetBookIncludingDeleted(ctx, bookID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, ports.ErrUnknownBook
		}
		return nil, err
	}
	return &domain.BookSummary{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		RentalPrice: book.RentalPrice,
		ImagePath:   book.ImagePath,
	}, nil
}
