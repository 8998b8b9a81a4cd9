package tags

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, *Repository, func()) {
	dbPath := "./test_tags_" + t.Name() + ".db"

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

	first, err := repo.GetOrCreate("sci-fi")
	require.NoError(t, err)
	second, err := repo.GetOrCreate("sci-fi")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_DeleteRemovesRefs(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.GetOrCreate("sci-fi")
	require.NoError(t, err)

	book := entities.Book{Title: "Dune", ReadingStatus: entities.StatusWant}
	require.NoError(t, db.DB.Create(&book).Error)
	require.NoError(t, db.DB.Create(&entities.BookTag{BookID: book.ID, TagID: tag.ID}).Error)

	require.NoError(t, repo.Delete(tag.ID))

	var refCount, bookCount int64
	require.NoError(t, db.DB.Model(&entities.BookTag{}).Count(&refCount).Error)
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&bookCount).Error)
	assert.Zero(t, refCount)
	assert.Equal(t, int64(1), bookCount)
}

func TestRepository_DeleteOrphans(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	used, err := repo.GetOrCreate("sci-fi")
	require.NoError(t, err)
	_, err = repo.GetOrCreate("abandoned")
	require.NoError(t, err)
	_, err = repo.GetOrCreate("stale")
	require.NoError(t, err)

	book := entities.Book{Title: "Dune", ReadingStatus: entities.StatusWant}
	require.NoError(t, db.DB.Create(&book).Error)
	require.NoError(t, db.DB.Create(&entities.BookTag{BookID: book.ID, TagID: used.ID}).Error)

	removed, err := repo.DeleteOrphans()
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	remaining, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "sci-fi", remaining[0].Name)
}
