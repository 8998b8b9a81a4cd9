package genres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, *Repository, func()) {
	dbPath := "./test_genres_" + t.Name() + ".db"

	db, err := database.New(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func TestRepository_GetOrCreateIsIdempotent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.GetOrCreate("Science Fiction")
	require.NoError(t, err)
	second, err := repo.GetOrCreate("Science Fiction")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Genre{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetAllOrdersByName(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrCreate("Science Fiction")
	require.NoError(t, err)
	_, err = repo.GetOrCreate("Fantasy")
	require.NoError(t, err)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Fantasy", all[0].Name)
}

func TestRepository_DeleteRemovesRefsButNotBooks(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	genre, err := repo.GetOrCreate("Science Fiction")
	require.NoError(t, err)

	book := entities.Book{Title: "Dune", ReadingStatus: entities.StatusWant}
	require.NoError(t, db.DB.Create(&book).Error)
	require.NoError(t, db.DB.Create(&entities.BookGenre{BookID: book.ID, GenreID: genre.ID}).Error)

	require.NoError(t, repo.Delete(genre.ID))

	var refCount, bookCount int64
	require.NoError(t, db.DB.Model(&entities.BookGenre{}).Count(&refCount).Error)
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&bookCount).Error)
	assert.Zero(t, refCount)
	assert.Equal(t, int64(1), bookCount)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	assert.ErrorIs(t, repo.Delete(999), database.ErrNotFound)
}
