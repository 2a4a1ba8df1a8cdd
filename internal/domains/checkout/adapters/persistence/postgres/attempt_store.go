package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

var _ ports.PlacementAttemptStore = (*AttemptStore)(nil)

// AttemptStore persists placement idempotency records in PostgreSQL.
type AttemptStore struct {
	db *gorm.DB
}

// NewAttemptStore wires a PostgreSQL-backed attempt store.
func NewAttemptStore(db *gorm.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

type attemptRecord struct {
	Key           string    `gorm:"primaryKey;column:key;size:255"`
	CartHash      string    `gorm:"column:cart_hash;size:128"`
	OrdersCreated int32     `gorm:"column:orders_created"`
	PlacedAt      time.Time `gorm:"column:placed_at"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (attemptRecord) TableName() string { return "placement_attempts" }

// Get loads an attempt by key, returning nil when absent.
func (s *AttemptStore) Get(ctx context.Context, key string) (*ports.PlacementAttempt, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record attemptRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr(err)
	}
	return toPortAttempt(&record), nil
}

// Save inserts the attempt; a duplicate key with the same cart hash returns
// the stored attempt, a different hash returns ErrAttemptConflict.
func (s *AttemptStore) Save(ctx context.Context, attempt ports.PlacementAttempt) (*ports.PlacementAttempt, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	record := attemptRecord{
		Key:           attempt.Key,
		CartHash:      attempt.CartHash,
		OrdersCreated: attempt.OrdersCreated,
		PlacedAt:      attempt.PlacedAt,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, getErr := s.Get(ctx, attempt.Key)
			if getErr != nil {
				return nil, getErr
			}
			if existing == nil {
				return nil, storageErr(err)
			}
			if existing.CartHash != attempt.CartHash {
				return existing, ports.ErrAttemptConflict
			}
			return existing, nil
		}
		return nil, storageErr(err)
	}
	return toPortAttempt(&record), nil
}

func (s *AttemptStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres attempt store not configured")
	}
	return nil
}

func toPortAttempt(record *attemptRecord) *ports.PlacementAttempt {
	if record == nil {
		return nil
	}
	return &ports.PlacementAttempt{
		Key:           record.Key,
		CartHash:      record.CartHash,
		OrdersCreated: record.OrdersCreated,
		PlacedAt:      record.PlacedAt,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
