package ports

import (
	"context"
	"errors"

	"github.com/shelfwise/rental-api/internal/domains/catalog/domain"
)

var (
	// ErrNotFound signals the book does not exist or is soft-deleted.
	ErrNotFound = errors.New("book not found")
	// ErrStorage wraps connectivity or constraint failures from the backing store.
	ErrStorage = errors.New("catalog storage failure")
)

// Repository persists books and categories.
type Repository interface {
	// ListBooks returns non-deleted books, most recently created first.
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	// GetBook returns the book or ErrNotFound; soft-deleted books are absent.
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	SaveBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	SoftDeleteBook(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
}
