package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle    = errors.New("book title must not be empty")
	ErrEmptyAuthor   = errors.New("book author must not be empty")
	ErrNegativePrice = errors.New("rental price must not be negative")
)

// Book models a rentable title in the catalog. Soft-deleted books stay on
// record so historical orders keep rendering, but they never appear in
// listings.
type Book struct {
	ID          int64
	Title       string
	Author      string
	RentalPrice float64
	ImagePath   string
	Tags        []string
	CategoryID  *int64
	Available   bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
}

// NewBook validates and constructs a Book aggregate.
func NewBook(id int64, title, author string, rentalPrice float64) (*Book, error) {
	book := &Book{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Author:      strings.TrimSpace(author),
		RentalPrice: rentalPrice,
		Available:   true,
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Validate enforces invariants on the aggregate.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(b.Author) == "" {
		return ErrEmptyAuthor
	}
	if b.RentalPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Deleted reports whether the book has been soft-deleted.
func (b *Book) Deleted() bool {
	return b.DeletedAt != nil
}

// SoftDelete marks the book removed without losing the row.
func (b *Book) SoftDelete(at time.Time) {
	if b.DeletedAt == nil {
		stamp := at
		b.DeletedAt = &stamp
	}
	b.Available = false
}

// ReplaceTags swaps the search tags, dropping empty entries.
func (b *Book) ReplaceTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	b.Tags = cleaned
}

// Category is a display grouping referenced by books, never owned by them.
type Category struct {
	ID   int64
	Name string
}

var ErrEmptyCategoryName = errors.New("category name must not be empty")

// NewCategory validates and constructs a Category.
func NewCategory(id int64, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	return &Category{ID: id, Name: name}, nil
}
