// Package mapper translates between catalog wire DTOs and application types.
package mapper

import (
	"time"

	"github.com/shelfwise/rental-api/internal/domains/catalog/application/types"
)

// BookPayload is the create/update request body for a book.
type BookPayload struct {
	Title       *string   `json:"title"`
	Author      *string   `json:"author"`
	RentalPrice *float64  `json:"rentalPrice"`
	ImagePath   *string   `json:"imagePath"`
	Tags        *[]string `json:"tags"`
	CategoryID  *int64    `json:"categoryId"`
	Available   *bool     `json:"available"`
}

// BookResponse is the wire shape of a catalog book.
type BookResponse struct {
	ID          int64     `json:"bookId"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	RentalPrice float64   `json:"rentalPrice"`
	ImagePath   string    `json:"imagePath"`
	Tags        []string  `json:"tags,omitempty"`
	CategoryID  *int64    `json:"categoryId,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryPayload is the create request body for a category.
type CategoryPayload struct {
	Name string `json:"categoryName" binding:"required"`
}

// CategoryResponse is the wire shape of a category.
type CategoryResponse struct {
	ID   int64  `json:"categoryId"`
	Name string `json:"categoryName"`
}

// ToMutationInput converts a payload to the application mutation input.
func ToMutationInput(payload BookPayload) types.BookMutationInput {
	return types.BookMutationInput{
		Title:       payload.Title,
		Author:      payload.Author,
		RentalPrice: payload.RentalPrice,
		ImagePath:   payload.ImagePath,
		Tags:        payload.Tags,
		CategoryID:  payload.CategoryID,
		Available:   payload.Available,
	}
}

// FromProjection converts a book projection to its wire shape.
func FromProjection(projection *types.BookProjection) BookResponse {
	if projection == nil || projection.Book == nil {
		return BookResponse{}
	}
	book := projection.Book
	return BookResponse{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		RentalPrice: book.RentalPrice,
		ImagePath:   book.ImagePath,
		Tags:        book.Tags,
		CategoryID:  book.CategoryID,
		Available:   book.Available,
		CreatedAt:   book.CreatedAt,
	}
}

// FromProjectionList converts a slice of book projections.
func FromProjectionList(projections []*types.BookProjection) []BookResponse {
	result := make([]BookResponse, 0, len(projections))
	for _, projection := range projections {
		result = append(result, FromProjection(projection))
	}
	return result
}

// FromCategory converts a category projection to its wire shape.
func FromCategory(projection *types.CategoryProjection) CategoryResponse {
	if projection == nil || projection.Category == nil {
		return CategoryResponse{}
	}
	return CategoryResponse{ID: projection.Category.ID, Name: projection.Category.Name}
}

// FromCategoryList converts a slice of category projections.
func FromCategoryList(projections []*types.CategoryProjection) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(projections))
	for _, projection := range projections {
		result = append(result, FromCategory(projection))
	}
	return result
}
