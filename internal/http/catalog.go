package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfkeeper/shelfkeeper/internal/database/authors"
	"github.com/shelfkeeper/shelfkeeper/internal/database/genres"
	"github.com/shelfkeeper/shelfkeeper/internal/database/tags"
	"github.com/shelfkeeper/shelfkeeper/internal/tasks"
)

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// AuthorsController serves author lookup and maintenance endpoints.
type AuthorsController struct {
	repo *authors.Repository
}

func NewAuthorsController(repo *authors.Repository) *AuthorsController {
	return &AuthorsController{repo: repo}
}

func (controller *AuthorsController) GetAllAuthors(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		result, err := controller.repo.Search(q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.IndentedJSON(http.StatusOK, gin.H{"authors": result, "count": len(result)})
		return
	}

	result, err := controller.repo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"authors": result, "count": len(result)})
}

func (controller *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	author, err := controller.repo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, author)
}

func (controller *AuthorsController) CreateAuthor(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, err := controller.repo.GetOrCreate(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, author)
}

func (controller *AuthorsController) UpdateAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, err := controller.repo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	author.Name = req.Name
	if err := controller.repo.Update(author); err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, author)
}

func (controller *AuthorsController) DeleteAuthor(c *gin.Context) {
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

func (controller *AuthorsController) AddAuthorLink(c *gin.Context) {
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

func (controller *AuthorsController) DeleteAuthorLink(c *gin.Context) {
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

// GenresController serves genre maintenance endpoints.
type GenresController struct {
	repo *genres.Repository
}

func NewGenresController(repo *genres.Repository) *GenresController {
	return &GenresController{repo: repo}
}

func (controller *GenresController) GetAllGenres(c *gin.Context) {
	result, err := controller.repo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"genres": result, "count": len(result)})
}

func (controller *GenresController) CreateGenre(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := controller.repo.GetOrCreate(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, genre)
}

func (controller *GenresController) DeleteGenre(c *gin.Context) {
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

// TagsController serves tag maintenance endpoints, including manual orphan
// cleanup via the task queue.
type TagsController struct {
	repo       *tags.Repository
	taskClient *tasks.Client
}

func NewTagsController(repo *tags.Repository, taskClient *tasks.Client) *TagsController {
	return &TagsController{repo: repo, taskClient: taskClient}
}

func (controller *TagsController) GetAllTags(c *gin.Context) {
	result, err := controller.repo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"tags": result, "count": len(result)})
}

func (controller *TagsController) CreateTag(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := controller.repo.GetOrCreate(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, tag)
}

func (controller *TagsController) DeleteTag(c *gin.Context) {
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

func (controller *TagsController) CleanupOrphanTags(c *gin.Context) {
	if controller.taskClient == nil {
		// No queue configured, clean up synchronously.
		removed, err := controller.repo.DeleteOrphans()
		if err != nil {
			respondError(c, err)
			return
		}
		c.IndentedJSON(http.StatusOK, gin.H{"removed": removed})
		return
	}

	ids, err := controller.taskClient.Add(tasks.CleanupOrphanTagsTask{}).Save()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusAccepted, gin.H{"task_id": ids[0], "message": "cleanup enqueued"})
}
