// Package types carries the catalog use-case inputs and projections shared
// between ports, application, and transport adapters.
package types

import (
	"time"

	"github.com/shelfwise/rental-api/internal/domains/catalog/domain"
)

// BookMutationInput captures create/update payloads for a book. Pointer fields
// distinguish "absent" from zero values on partial updates.
type BookMutationInput struct {
	Title       *string
	Author      *string
	RentalPrice *float64
	ImagePath   *string
	Tags        *[]string
	CategoryID  *int64
	Available   *bool
}

// BookProjection is the read model returned to adapters.
type BookProjection struct {
	Book      *domain.Book
	CreatedAt time.Time
}

// CategoryProjection is the category read model.
type CategoryProjection struct {
	Category *domain.Category
}
