package ports

import (
	"context"
	"errors"
	"time"
)

// ErrAttemptConflict indicates the same idempotency key was reused for a
// different cart snapshot.
var ErrAttemptConflict = errors.New("placement attempt conflict")

// PlacementAttempt records the outcome of a keyed placement so retries replay
// the stored result instead of double-placing.
type PlacementAttempt struct {
	Key           string
	CartHash      string
	OrdersCreated int32
	PlacedAt      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlacementAttemptStore persists idempotency records for keyed placements.
type PlacementAttemptStore interface {
	// Get returns the stored attempt for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*PlacementAttempt, error)
	// Save persists the attempt; if the key already exists with the same cart
	// hash the stored attempt is returned. A key bound to a different hash
	// returns ErrAttemptConflict with the stored attempt.
	Save(ctx context.Context, attempt PlacementAttempt) (*PlacementAttempt, error)
}
