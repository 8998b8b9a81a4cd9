package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfkeeper/shelfkeeper/internal/database/books"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

type BooksController struct {
	repo *books.Repository
}

func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// filterFromQuery builds a book filter from list query parameters.
func filterFromQuery(c *gin.Context) (books.BookFilter, error) {
	authorIDs, err := queryIDs(c, "author_ids")
	if err != nil {
		return books.BookFilter{}, err
	}
	genreIDs, err := queryIDs(c, "genre_ids")
	if err != nil {
		return books.BookFilter{}, err
	}
	tagIDs, err := queryIDs(c, "tag_ids")
	if err != nil {
		return books.BookFilter{}, err
	}

	return books.BookFilter{
		Sort:       books.ParseSortOrder(c.Query("sort")),
		Status:     c.Query("status"),
		AuthorIDs:  authorIDs,
		GenreIDs:   genreIDs,
		TagIDs:     tagIDs,
		TitleQuery: c.Query("q"),
	}, nil
}

func (controller *BooksController) ListBooks(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid id list"})
		return
	}

	result, err := controller.repo.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": result, "count": len(result)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	book, err := controller.repo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book.ID = 0

	if err := controller.repo.Create(&book); err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book.ID = id

	if err := controller.repo.Update(&book); err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := controller.repo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type linkRequest struct {
	LinkText string `json:"linkText" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

func (controller *BooksController) AddBookLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := controller.repo.AddLink(id, req.LinkText, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, link)
}

func (controller *BooksController) DeleteBookLink(c *gin.Context) {
	linkID, ok := pathID(c, "linkId")
	if !ok {
		return
	}

	if err := controller.repo.DeleteLink(linkID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (controller *BooksController) GetBookCount(c *gin.Context) {
	count, err := controller.repo.Count()
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"total_books": count})
}
