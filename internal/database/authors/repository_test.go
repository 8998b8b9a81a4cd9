package authors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, *Repository, func()) {
	dbPath := "./test_authors_" + t.Name() + ".db"

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

	first, err := repo.GetOrCreate("Frank Herbert")
	require.NoError(t, err)
	second, err := repo.GetOrCreate("Frank Herbert")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Author{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetOrCreateMatchesCaseSensitively(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.GetOrCreate("Frank Herbert")
	require.NoError(t, err)
	second, err := repo.GetOrCreate("frank herbert")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestRepository_GetOrCreateEmptyName(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrCreate("")

	var verr *database.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRepository_GetAllOrdersByName(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrCreate("Ursula K. Le Guin")
	require.NoError(t, err)
	_, err = repo.GetOrCreate("Frank Herbert")
	require.NoError(t, err)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Frank Herbert", all[0].Name)
	assert.Equal(t, "Ursula K. Le Guin", all[1].Name)
}

func TestRepository_Search(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrCreate("Frank Herbert")
	require.NoError(t, err)
	_, err = repo.GetOrCreate("Jane Austen")
	require.NoError(t, err)

	found, err := repo.Search("Herb")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Frank Herbert", found[0].Name)
}

func TestRepository_UpdateRenames(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.GetOrCreate("F. Herbert")
	require.NoError(t, err)

	author.Name = "Frank Herbert"
	require.NoError(t, repo.Update(author))

	reloaded, err := repo.GetByID(author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", reloaded.Name)
}

func TestRepository_Update_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Update(&entities.Author{ID: 999, Name: "Ghost"})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_DeleteRemovesRefsButNotBooks(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.GetOrCreate("Frank Herbert")
	require.NoError(t, err)

	book := entities.Book{Title: "Dune", ReadingStatus: entities.StatusWant}
	require.NoError(t, db.DB.Create(&book).Error)
	require.NoError(t, db.DB.Create(&entities.BookAuthor{BookID: book.ID, AuthorID: author.ID}).Error)
	_, err = repo.AddLink(author.ID, "Wikipedia", "https://en.wikipedia.org/wiki/Frank_Herbert")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(author.ID))

	_, err = repo.GetByID(author.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	var refCount, linkCount, bookCount int64
	require.NoError(t, db.DB.Model(&entities.BookAuthor{}).Count(&refCount).Error)
	require.NoError(t, db.DB.Model(&entities.AuthorLink{}).Count(&linkCount).Error)
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&bookCount).Error)
	assert.Zero(t, refCount)
	assert.Zero(t, linkCount)
	assert.Equal(t, int64(1), bookCount)
}

func TestRepository_DeleteLink(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.GetOrCreate("Frank Herbert")
	require.NoError(t, err)
	link, err := repo.AddLink(author.ID, "Site", "https://example.com")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteLink(link.ID))
	assert.ErrorIs(t, repo.DeleteLink(link.ID), database.ErrNotFound)
}
