package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

var _ ports.PlacementAttemptStore = (*AttemptStore)(nil)

// AttemptStore keeps placement idempotency records in memory.
type AttemptStore struct {
	mu       sync.Mutex
	attempts map[string]ports.PlacementAttempt
	now      func() time.Time
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: map[string]ports.PlacementAttempt{}, now: time.Now}
}

// Get returns the stored attempt for the key, or nil when unknown.
func (s *AttemptStore) Get(_ context.Context, key string) (*ports.PlacementAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[key]
	if !ok {
		return nil, nil
	}
	clone := attempt
	return &clone, nil
}

// Save persists the attempt; an existing key with the same cart hash returns
// the stored attempt, a different hash returns ErrAttemptConflict.
func (s *AttemptStore) Save(_ context.Context, attempt ports.PlacementAttempt) (*ports.PlacementAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.attempts[attempt.Key]; ok {
		clone := existing
		if existing.CartHash != attempt.CartHash {
			return &clone, ports.ErrAttemptConflict
		}
		return &clone, nil
	}
	stamp := s.now()
	attempt.CreatedAt = stamp
	attempt.UpdatedAt = stamp
	s.attempts[attempt.Key] = attempt
	clone := attempt
	return &clone, nil
}
