package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&bookRecord{},
		&cartLineRecord{},
		&orderRecord{},
		&attemptRecord{},
	)
}

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Book schema mirrors the catalog Postgres adapter.
type bookRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Title       string          `gorm:"column:title;index"`
	Author      string          `gorm:"column:author;index"`
	RentalPrice float64         `gorm:"column:rental_price"`
	ImagePath   string          `gorm:"column:image_path"`
	Tags        pq.StringArray  `gorm:"column:tags;type:text[]"`
	CategoryID  *int64          `gorm:"column:category_id;index"`
	Category    *categoryRecord `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Available   bool            `gorm:"column:available"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (bookRecord) TableName() string { return "books" }

// Cart line schema mirrors the checkout Postgres adapter. The book foreign
// key is what turns unknown-book inserts into constraint violations.
type cartLineRecord struct {
	ID      int64      `gorm:"primaryKey;column:id"`
	BookID  int64      `gorm:"column:book_id;not null;index"`
	Book    bookRecord `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
	AddedAt time.Time  `gorm:"column:added_at;index"`
}

func (cartLineRecord) TableName() string { return "cart_lines" }

// Order schema mirrors the checkout Postgres adapter.
type orderRecord struct {
	ID             int64      `gorm:"primaryKey;column:id"`
	OwnerID        *int64     `gorm:"column:owner_id"`
	BookID         int64      `gorm:"column:book_id;not null;index"`
	Book           bookRecord `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
	PlacedAt       time.Time  `gorm:"column:placed_at;index"`
	RentalDays     *int32     `gorm:"column:rental_days"`
	PaymentStatus  string     `gorm:"column:payment_status;type:varchar(32);index"`
	DeliveryStatus string     `gorm:"column:delivery_status;type:varchar(32);index"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Placement attempt schema mirrors the checkout idempotency store.
type attemptRecord struct {
	Key           string    `gorm:"primaryKey;column:key;size:255"`
	CartHash      string    `gorm:"column:cart_hash;size:128"`
	OrdersCreated int32     `gorm:"column:orders_created"`
	PlacedAt      time.Time `gorm:"column:placed_at"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (attemptRecord) TableName() string { return "placement_attempts" }
