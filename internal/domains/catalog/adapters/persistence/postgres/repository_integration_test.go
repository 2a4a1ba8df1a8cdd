//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shelfwise/rental-api/internal/domains/catalog/domain"
	"github.com/shelfwise/rental-api/internal/domains/catalog/ports"
	"github.com/shelfwise/rental-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("rental_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func mustBook(t *testing.T, title string) *domain.Book {
	t.Helper()
	book, err := domain.NewBook(0, title, "Author", 2.5)
	require.NoError(t, err)
	return book
}

func TestPostgresRepository_SaveAndGetBook(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	book := mustBook(t, "Dune")
	book.ReplaceTags([]string{"sci-fi", "classic"})

	saved, err := repo.SaveBook(ctx, book)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Dune", saved.Title)
	assert.Equal(t, []string{"sci-fi", "classic"}, saved.Tags)
	assert.False(t, saved.CreatedAt.IsZero())

	retrieved, err := repo.GetBook(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", retrieved.Title)
	assert.True(t, retrieved.Available)
}

func TestPostgresRepository_SoftDeleteExcludesFromListing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	kept, err := repo.SaveBook(ctx, mustBook(t, "Kept"))
	require.NoError(t, err)
	dropped, err := repo.SaveBook(ctx, mustBook(t, "Dropped"))
	require.NoError(t, err)

	require.NoError(t, repo.SoftDeleteBook(ctx, dropped.ID))

	_, err = repo.GetBook(ctx, dropped.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	books, err := repo.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, kept.ID, books[0].ID)

	// The row survives for order history joins.
	var count int64
	require.NoError(t, db.Table("books").Where("id = ?", dropped.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, repo.SoftDeleteBook(ctx, dropped.ID), ports.ErrNotFound)
}

func TestPostgresRepository_Categories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	category, err := domain.NewCategory(0, "Science Fiction")
	require.NoError(t, err)
	saved, err := repo.SaveCategory(ctx, category)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	book := mustBook(t, "Dune")
	book.CategoryID = &saved.ID
	savedBook, err := repo.SaveBook(ctx, book)
	require.NoError(t, err)
	require.NotNil(t, savedBook.CategoryID)
	assert.Equal(t, saved.ID, *savedBook.CategoryID)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestPostgresRepository_ListBooksNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := repo.SaveBook(ctx, mustBook(t, title))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	books, err := repo.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Third", books[0].Title)
	assert.Equal(t, "First", books[2].Title)
}
