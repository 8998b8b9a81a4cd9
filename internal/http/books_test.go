package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfkeeper/shelfkeeper/internal/backup"
	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/database/authors"
	"github.com/shelfkeeper/shelfkeeper/internal/database/books"
	"github.com/shelfkeeper/shelfkeeper/internal/database/genres"
	"github.com/shelfkeeper/shelfkeeper/internal/database/tags"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *books.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.New(dbPath)
	require.NoError(t, err)

	booksRepo := books.NewRepository(db)

	router := NewRouter(RouterConfig{
		Database: db,
		Books:    booksRepo,
		Authors:  authors.NewRepository(db),
		Genres:   genres.NewRepository(db),
		Tags:     tags.NewRepository(db),
		Backup:   backup.NewRepository(db),
		Version:  "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, booksRepo, cleanup
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestBooksController_CreateAndGet(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(router, "POST", "/api/books", `{
		"title": "Dune",
		"readingStatus": "finished",
		"authors": [{"name": "Frank Herbert"}],
		"genres": [{"name": "Science Fiction"}],
		"tags": [{"name": "classic"}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	w = doJSON(router, "GET", fmt.Sprintf("/api/books/%d", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "Dune", fetched.Title)
	require.Len(t, fetched.Authors, 1)
	assert.Equal(t, "Frank Herbert", fetched.Authors[0].Name)
}

func TestBooksController_CreateValidationFailure(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(router, "POST", "/api/books", `{"title": "Dune", "rating": 9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_GetNotFound(t *testing.T) {
	router, _, cleanup := setupTestRouter(t)
	defer cleanup()

	w := doJSON(router, "GET", "/api/books/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "GET", "/api/books/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_ListWithFilter(t *testing.T) {
	router, repo, cleanup := setupTestRouter(t)
	defer cleanup()

	withGenre := &entities.Book{
		Title:         "Dune",
		ReadingStatus: entities.StatusFinished,
		Authors:       []entities.Author{{Name: "Frank Herbert"}},
		Genres:        []entities.Genre{{Name: "Science Fiction"}},
	}
	require.NoError(t, repo.Create(withGenre))
	require.NoError(t, repo.Create(&entities.Book{
		Title:         "The Santaroga Barrier",
		ReadingStatus: entities.StatusWant,
		Authors:       []entities.Author{{Name: "Frank Herbert"}},
	}))

	path := fmt.Sprintf("/api/books?author_ids=%d&genre_ids=%d",
		withGenre.Authors[0].ID, withGenre.Genres[0].ID)
	w := doJSON(router, "GET", path, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Books []entities.Book `json:"books"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Dune", resp.Books[0].Title)

	w = doJSON(router, "GET", "/api/books?author_ids=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_UpdateAndDelete(t *testing.T) {
	router, repo, cleanup := setupTestRouter(t)
	defer cleanup()

	book := &entities.Book{Title: "Dune", ReadingStatus: entities.StatusWant}
	require.NoError(t, repo.Create(book))

	w := doJSON(router, "PUT", fmt.Sprintf("/api/books/%d", book.ID),
		`{"title": "Dune (revised)", "readingStatus": "reading"}`)
	require.Equal(t, http.StatusOK, w.Code)

	updated, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune (revised)", updated.Title)
	assert.Equal(t, entities.StatusReading, updated.ReadingStatus)

	w = doJSON(router, "DELETE", fmt.Sprintf("/api/books/%d", book.ID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, "DELETE", fmt.Sprintf("/api/books/%d", book.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_Links(t *testing.T) {
	router, repo, cleanup := setupTestRouter(t)
	defer cleanup()

	book := &entities.Book{Title: "Dune", ReadingStatus: entities.StatusWant}
	require.NoError(t, repo.Create(book))

	w := doJSON(router, "POST", fmt.Sprintf("/api/books/%d/links", book.ID),
		`{"linkText": "Review", "url": "https://example.com/review"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var link entities.BookLink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))
	assert.NotZero(t, link.ID)

	w = doJSON(router, "DELETE", fmt.Sprintf("/api/books/%d/links/%d", book.ID, link.ID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, repo, cleanup := setupTestRouter(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Book{Title: "Dune", ReadingStatus: entities.StatusWant}))

	w := doJSON(router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Checks["database"])
	assert.Equal(t, "ok (1 books)", health.Checks["catalog"])
}
