package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shelfwise/rental-api/internal/domains/catalog/domain"
	"github.com/shelfwise/rental-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog adapter used when no DSN is configured
// and by unit tests.
type Repository struct {
	mu             sync.RWMutex
	books          map[int64]*domain.Book
	categories     map[int64]*domain.Category
	nextBookID     int64
	nextCategoryID int64
	now            func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		books:      map[int64]*domain.Book{},
		categories: map[int64]*domain.Category{},
		now:        time.Now,
	}
}

func (r *Repository) ListBooks(_ context.Context) ([]*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Book, 0, len(r.books))
	for _, book := range r.books {
		if book.Deleted() {
			continue
		}
		clone := cloneBook(book)
		list = append(list, clone)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) GetBook(_ context.Context, id int64) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok || book.Deleted() {
		return nil, ports.ErrNotFound
	}
	return cloneBook(book), nil
}

func (r *Repository) SaveBook(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if book == nil {
		return nil, errors.New("book is nil")
	}
	clone := cloneBook(book)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextBookID++
		clone.ID = r.nextBookID
	} else if clone.ID > r.nextBookID {
		r.nextBookID = clone.ID
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = r.now()
	}
	r.books[clone.ID] = cloneBook(clone)
	return clone, nil
}

func (r *Repository) SoftDeleteBook(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok || book.Deleted() {
		return ports.ErrNotFound
	}
	book.SoftDelete(r.now())
	return nil
}

func (r *Repository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		clone := *category
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) SaveCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	clone := *category
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextCategoryID++
		clone.ID = r.nextCategoryID
	} else if clone.ID > r.nextCategoryID {
		r.nextCategoryID = clone.ID
	}
	stored := clone
	r.categories[stored.ID] = &stored
	return &clone, nil
}

// GetBookIncludingDeleted looks up a book regardless of its soft-delete
// marker. Order history joins need display fields for retired titles.
func (r *Repository) GetBookIncludingDeleted(_ context.Context, id int64) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneBook(book), nil
}

func cloneBook(book *domain.Book) *domain.Book {
	clone := *book
	clone.Tags = append([]string(nil), book.Tags...)
	if book.CategoryID != nil {
		id := *book.CategoryID
		clone.CategoryID = &id
	}
	if book.DeletedAt != nil {
		at := *book.DeletedAt
		clone.DeletedAt = &at
	}
	return &clone
}
