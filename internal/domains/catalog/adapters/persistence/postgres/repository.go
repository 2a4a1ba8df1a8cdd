package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/shelfwise/rental-api/internal/domains/catalog/domain"
	"github.com/shelfwise/rental-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog repository. Caller manages
// the DB lifecycle; schema is owned by the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type bookRecord struct {
	ID          int64          `gorm:"primaryKey;column:id"`
	Title       string         `gorm:"column:title"`
	Author      string         `gorm:"column:author"`
	RentalPrice float64        `gorm:"column:rental_price"`
	ImagePath   string         `gorm:"column:image_path"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	CategoryID  *int64         `gorm:"column:category_id;index"`
	Available   bool           `gorm:"column:available"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (bookRecord) TableName() string { return "books" }

type categoryRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;uniqueIndex"`
}

func (categoryRecord) TableName() string { return "categories" }

// ListBooks returns non-deleted books, most recently created first. GORM's
// soft-delete scope filters deleted_at automatically.
func (r *Repository) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []bookRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, storageErr(err)
	}
	books := make([]*domain.Book, 0, len(records))
	for i := range records {
		books = append(books, records[i].toDomain())
	}
	return books, nil
}

// GetBook fetches a non-deleted book by identifier.
func (r *Repository) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return record.toDomain(), nil
}

// SaveBook inserts or updates a book.
func (r *Repository) SaveBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("book is nil")
	}
	record := toBookRecord(book)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, storageErr(err)
	}
	return r.GetBook(ctx, record.ID)
}

// SoftDeleteBook flags the row deleted; GORM keeps it for order history.
func (r *Repository) SoftDeleteBook(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&bookRecord{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": gorm.Expr("NOW()"), "available": false})
	if result.Error != nil {
		return storageErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ListCategories returns all categories; ordering is not guaranteed.
func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, storageErr(err)
	}
	categories := make([]*domain.Category, 0, len(records))
	for i := range records {
		categories = append(categories, &domain.Category{ID: records[i].ID, Name: records[i].Name})
	}
	return categories, nil
}

// SaveCategory inserts or updates a category.
func (r *Repository) SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := categoryRecord{ID: category.ID, Name: category.Name}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, storageErr(err)
	}
	return &domain.Category{ID: record.ID, Name: record.Name}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ports.ErrStorage, err)
}

func toBookRecord(book *domain.Book) bookRecord {
	record := bookRecord{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		RentalPrice: book.RentalPrice,
		ImagePath:   book.ImagePath,
		Tags:        pq.StringArray(book.Tags),
		CategoryID:  book.CategoryID,
		Available:   book.Available,
		CreatedAt:   book.CreatedAt,
	}
	return record
}

func (r bookRecord) toDomain() *domain.Book {
	book := &domain.Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		RentalPrice: r.RentalPrice,
		ImagePath:   r.ImagePath,
		Tags:        append([]string(nil), r.Tags...),
		CategoryID:  r.CategoryID,
		Available:   r.Available,
		CreatedAt:   r.CreatedAt,
	}
	if r.DeletedAt.Valid {
		at := r.DeletedAt.Time
		book.DeletedAt = &at
	}
	return book
}
