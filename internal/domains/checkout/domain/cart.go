package domain

import "time"

// CartLine is one pending rental intent for a single book. The storefront
// runs a single shared cart; lines are unscoped to any user.
type CartLine struct {
	ID      int64
	BookID  int64
	AddedAt time.Time
}

// BookSummary carries the display fields joined onto cart lines and orders.
type BookSummary struct {
	ID          int64
	Title       string
	Author      string
	RentalPrice float64
	ImagePath   string
}
