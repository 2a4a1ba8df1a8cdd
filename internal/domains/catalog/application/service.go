package application

import (
	"context"

	"github.com/shelfwise/rental-api/internal/domains/catalog/application/types"
	"github.com/shelfwise/rental-api/internal/domains/catalog/domain"
	"github.com/shelfwise/rental-api/internal/domains/catalog/ports"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the catalog service with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

var _ ports.Service = (*Service)(nil)

// ListBooks returns the storefront listing: non-deleted books, newest first.
func (s *Service) ListBooks(ctx context.Context) ([]*types.BookProjection, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return projectBooks(books), nil
}

// GetBook loads a single non-deleted book.
func (s *Service) GetBook(ctx context.Context, id int64) (*types.BookProjection, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return projectBook(book), nil
}

// CreateBook persists a new book aggregate.
func (s *Service) CreateBook(ctx context.Context, input types.BookMutationInput) (*types.BookProjection, error) {
	book, err := buildBook(input)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveBook(ctx, book)
	if err != nil {
		return nil, mapError(err)
	}
	return projectBook(saved), nil
}

// UpdateBook applies a partial mutation to an existing book.
func (s *Service) UpdateBook(ctx context.Context, id int64, input types.BookMutationInput) (*types.BookProjection, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyMutation(book, input); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveBook(ctx, book)
	if err != nil {
		return nil, mapError(err)
	}
	return projectBook(saved), nil
}

// SoftDeleteBook flags the book deleted; the row survives for order history.
func (s *Service) SoftDeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.SoftDeleteBook(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

// ListCategories returns every category; ordering is storage-defined.
func (s *Service) ListCategories(ctx context.Context) ([]*types.CategoryProjection, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	result := make([]*types.CategoryProjection, 0, len(categories))
	for _, category := range categories {
		result = append(result, &types.CategoryProjection{Category: category})
	}
	return result, nil
}

// CreateCategory persists a new display grouping.
func (s *Service) CreateCategory(ctx context.Context, name string) (*types.CategoryProjection, error) {
	category, err := domain.NewCategory(0, name)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.SaveCategory(ctx, category)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.CategoryProjection{Category: saved}, nil
}

func buildBook(input types.BookMutationInput) (*domain.Book, error) {
	var title, author string
	if input.Title != nil {
		title = *input.Title
	}
	if input.Author != nil {
		author = *input.Author
	}
	var price float64
	if input.RentalPrice != nil {
		price = *input.RentalPrice
	}
	book, err := domain.NewBook(0, title, author, price)
	if err != nil {
		return nil, err
	}
	partial := input
	partial.Title = nil
	partial.Author = nil
	partial.RentalPrice = nil
	if err := applyMutation(book, partial); err != nil {
		return nil, err
	}
	return book, nil
}

func applyMutation(book *domain.Book, input types.BookMutationInput) error {
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.RentalPrice != nil {
		book.RentalPrice = *input.RentalPrice
	}
	if input.ImagePath != nil {
		book.ImagePath = *input.ImagePath
	}
	if input.Tags != nil {
		book.ReplaceTags(*input.Tags)
	}
	if input.CategoryID != nil {
		if *input.CategoryID == 0 {
			book.CategoryID = nil
		} else {
			id := *input.CategoryID
			book.CategoryID = &id
		}
	}
	if input.Available != nil {
		book.Available = *input.Available
	}
	return book.Validate()
}

func projectBook(book *domain.Book) *types.BookProjection {
	if book == nil {
		return nil
	}
	return &types.BookProjection{Book: book, CreatedAt: book.CreatedAt}
}

func projectBooks(books []*domain.Book) []*types.BookProjection {
	result := make([]*types.BookProjection, 0, len(books))
	for _, book := range books {
		result = append(result, projectBook(book))
	}
	return result
}
