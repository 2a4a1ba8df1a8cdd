package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shelfwise/rental-api/internal/domains/checkout/application/types"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists cart lines and orders in PostgreSQL using GORM. The
// cart_lines and orders tables carry foreign keys to books; the driver's
// error translation turns violations into gorm.ErrForeignKeyViolated, which
// this adapter surfaces as ports.ErrUnknownBook.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed checkout repository. Caller manages
// the DB lifecycle; schema is owned by the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartLineRecord struct {
	ID      int64     `gorm:"primaryKey;column:id"`
	BookID  int64     `gorm:"column:book_id;not null;index"`
	AddedAt time.Time `gorm:"column:added_at;index"`
}

func (cartLineRecord) TableName() string { return "cart_lines" }

type orderRecord struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	OwnerID        *int64    `gorm:"column:owner_id"`
	BookID         int64     `gorm:"column:book_id;not null;index"`
	PlacedAt       time.Time `gorm:"column:placed_at;index"`
	RentalDays     *int32    `gorm:"column:rental_days"`
	PaymentStatus  string    `gorm:"column:payment_status;type:varchar(32)"`
	DeliveryStatus string    `gorm:"column:delivery_status;type:varchar(32)"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

// cartLineRow and orderRow scan the joined listing queries.
type cartLineRow struct {
	ID          int64
	BookID      int64
	AddedAt     time.Time
	Title       string
	Author      string
	RentalPrice float64
	ImagePath   string
}

type orderRow struct {
	ID             int64
	OwnerID        *int64
	BookID         int64
	PlacedAt       time.Time
	RentalDays     *int32
	PaymentStatus  string
	DeliveryStatus string
	Title          string
	Author         string
	RentalPrice    float64
	ImagePath      string
}

// Transact runs fn against a repository bound to one database transaction.
// GORM commits when fn returns nil and rolls back otherwise.
func (r *Repository) Transact(ctx context.Context, fn func(ports.Repository) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// ListCartLines returns the cart joined with book display fields, newest
// line first. The join bypasses the book soft-delete scope deliberately.
func (r *Repository) ListCartLines(ctx context.Context) ([]*types.CartLineProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []cartLineRow
	if err := r.db.WithContext(ctx).
		Table("cart_lines").
		Select("cart_lines.id, cart_lines.book_id, cart_lines.added_at, books.title, books.author, books.rental_price, books.image_path").
		Joins("JOIN books ON books.id = cart_lines.book_id").
		Order("cart_lines.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	result := make([]*types.CartLineProjection, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toProjection())
	}
	return result, nil
}

// ListCartLinesLocked reads every cart line under FOR UPDATE. Only meaningful
// inside Transact; the locks serialize racing placements on the shared cart.
func (r *Repository) ListCartLinesLocked(ctx context.Context) ([]*domain.CartLine, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []cartLineRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, storageErr(err)
	}
	lines := make([]*domain.CartLine, 0, len(records))
	for i := range records {
		lines = append(lines, &domain.CartLine{ID: records[i].ID, BookID: records[i].BookID, AddedAt: records[i].AddedAt})
	}
	return lines, nil
}

// AddCartLine inserts one rental intent; the books foreign key rejects
// unknown ids so no orphan rows are possible.
func (r *Repository) AddCartLine(ctx context.Context, bookID int64) (*types.CartLineProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := cartLineRecord{BookID: bookID, AddedAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ports.ErrUnknownBook
		}
		return nil, storageErr(err)
	}
	var row cartLineRow
	if err := r.db.WithContext(ctx).
		Table("cart_lines").
		Select("cart_lines.id, cart_lines.book_id, cart_lines.added_at, books.title, books.author, books.rental_price, books.image_path").
		Joins("JOIN books ON books.id = cart_lines.book_id").
		Where("cart_lines.id = ?", record.ID).
		Scan(&row).Error; err != nil {
		return nil, storageErr(err)
	}
	return row.toProjection(), nil
}

// RemoveCartLine is idempotent; deleting a missing id affects zero rows and
// is not an error.
func (r *Repository) RemoveCartLine(ctx context.Context, lineID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&cartLineRecord{}, lineID).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// ClearCart deletes every cart line.
func (r *Repository) ClearCart(ctx context.Context) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&cartLineRecord{}).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// PurgeStaleCartLines drops abandoned lines added before the cutoff.
func (r *Repository) PurgeStaleCartLines(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Where("added_at < ?", cutoff).
		Delete(&cartLineRecord{})
	if result.Error != nil {
		return 0, storageErr(result.Error)
	}
	return result.RowsAffected, nil
}

// InsertOrder creates one order row and returns its identifier.
func (r *Repository) InsertOrder(ctx context.Context, order *domain.Order) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	if order == nil {
		return 0, errors.New("order is nil")
	}
	record := toOrderRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, ports.ErrUnknownBook
		}
		return 0, storageErr(err)
	}
	return record.ID, nil
}

// ListOrders returns order history joined with book display fields, newest
// placement first.
func (r *Repository) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []orderRow
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.owner_id, orders.book_id, orders.placed_at, orders.rental_days, orders.payment_status, orders.delivery_status, books.title, books.author, books.rental_price, books.image_path").
		Joins("JOIN books ON books.id = orders.book_id").
		Order("orders.placed_at DESC, orders.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	result := make([]*types.OrderProjection, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toProjection())
	}
	return result, nil
}

// GetOrder fetches one order with its book display fields.
func (r *Repository) GetOrder(ctx context.Context, id int64) (*types.OrderProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []orderRow
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.owner_id, orders.book_id, orders.placed_at, orders.rental_days, orders.payment_status, orders.delivery_status, books.title, books.author, books.rental_price, books.image_path").
		Joins("JOIN books ON books.id = orders.book_id").
		Where("orders.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}
	return rows[0].toProjection(), nil
}

// UpdateOrderStatuses advances the status pair on an existing order.
func (r *Repository) UpdateOrderStatuses(ctx context.Context, id int64, payment domain.PaymentStatus, delivery domain.DeliveryStatus) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status":  string(payment),
			"delivery_status": string(delivery),
		})
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres checkout repository not configured")
	}
	return nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ports.ErrStorage, err)
}

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:             order.ID,
		OwnerID:        order.OwnerID,
		BookID:         order.BookID,
		PlacedAt:       order.PlacedAt,
		RentalDays:     order.RentalDays,
		PaymentStatus:  string(order.PaymentStatus),
		DeliveryStatus: string(order.DeliveryStatus),
	}
}

func (row cartLineRow) toProjection() *types.CartLineProjection {
	return &types.CartLineProjection{
		Line: &domain.CartLine{ID: row.ID, BookID: row.BookID, AddedAt: row.AddedAt},
		Book: domain.BookSummary{
			ID:          row.BookID,
			Title:       row.Title,
			Author:      row.Author,
			RentalPrice: row.RentalPrice,
			ImagePath:   row.ImagePath,
		},
	}
}

func (row orderRow) toProjection() *types.OrderProjection {
	return &types.OrderProjection{
		Order: &domain.Order{
			ID:             row.ID,
			OwnerID:        row.OwnerID,
			BookID:         row.BookID,
			PlacedAt:       row.PlacedAt,
			RentalDays:     row.RentalDays,
			PaymentStatus:  domain.PaymentStatus(row.PaymentStatus),
			DeliveryStatus: domain.DeliveryStatus(row.DeliveryStatus),
		},
		Book: domain.BookSummary{
			ID:          row.BookID,
			Title:       row.Title,
			Author:      row.Author,
			RentalPrice: row.RentalPrice,
			ImagePath:   row.ImagePath,
		},
	}
}
