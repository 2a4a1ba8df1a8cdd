package ports

import (
	"context"

	"github.com/shelfwise/rental-api/internal/domains/catalog/application/types"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListBooks(ctx context.Context) ([]*types.BookProjection, error)
	GetBook(ctx context.Context, id int64) (*types.BookProjection, error)
	CreateBook(ctx context.Context, input types.BookMutationInput) (*types.BookProjection, error)
	UpdateBook(ctx context.Context, id int64, input types.BookMutationInput) (*types.BookProjection, error)
	SoftDeleteBook(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]*types.CategoryProjection, error)
	CreateCategory(ctx context.Context, name string) (*types.CategoryProjection, error)
}
