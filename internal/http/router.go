package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shelfkeeper/shelfkeeper/internal/backup"
	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/database/authors"
	"github.com/shelfkeeper/shelfkeeper/internal/database/books"
	"github.com/shelfkeeper/shelfkeeper/internal/database/genres"
	"github.com/shelfkeeper/shelfkeeper/internal/database/tags"
	"github.com/shelfkeeper/shelfkeeper/internal/scraper"
	"github.com/shelfkeeper/shelfkeeper/internal/tasks"
)

// RouterConfig carries the dependencies for route construction. Optional
// members (TaskClient, Scraper) may be nil; the affected routes degrade or
// are skipped.
type RouterConfig struct {
	Database   *database.Database
	Books      *books.Repository
	Authors    *authors.Repository
	Genres     *genres.Repository
	Tags       *tags.Repository
	Backup     *backup.Repository
	TaskClient *tasks.Client
	Scraper    *scraper.Scraper
	BackupDir  string
	Version    string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books)
	authorsController := NewAuthorsController(cfg.Authors)
	genresController := NewGenresController(cfg.Genres)
	tagsController := NewTagsController(cfg.Tags, cfg.TaskClient)
	backupController := NewBackupController(cfg.Backup, cfg.TaskClient, cfg.BackupDir)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/count", booksController.GetBookCount)
	router.GET("/api/books/:id", booksController.GetBook)
	router.POST("/api/books", booksController.CreateBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.POST("/api/books/:id/links", booksController.AddBookLink)
	router.DELETE("/api/books/:id/links/:linkId", booksController.DeleteBookLink)

	// Author endpoints
	router.GET("/api/authors", authorsController.GetAllAuthors)
	router.GET("/api/authors/:id", authorsController.GetAuthor)
	router.POST("/api/authors", authorsController.CreateAuthor)
	router.PUT("/api/authors/:id", authorsController.UpdateAuthor)
	router.DELETE("/api/authors/:id", authorsController.DeleteAuthor)
	router.POST("/api/authors/:id/links", authorsController.AddAuthorLink)
	router.DELETE("/api/authors/:id/links/:linkId", authorsController.DeleteAuthorLink)

	// Genre endpoints
	router.GET("/api/genres", genresController.GetAllGenres)
	router.POST("/api/genres", genresController.CreateGenre)
	router.DELETE("/api/genres/:id", genresController.DeleteGenre)

	// Tag endpoints
	router.GET("/api/tags", tagsController.GetAllTags)
	router.POST("/api/tags", tagsController.CreateTag)
	router.DELETE("/api/tags/:id", tagsController.DeleteTag)
	router.POST("/api/admin/tags/cleanup", tagsController.CleanupOrphanTags)

	// Backup endpoints
	router.GET("/api/backup/export", backupController.DownloadSnapshot)
	router.POST("/api/backup/export", backupController.EnqueueExport)
	router.POST("/api/backup/import", backupController.ImportSnapshot)
	router.GET("/api/backup/tasks/:id", backupController.GetTaskStatus)

	// Scrape endpoint
	if cfg.Scraper != nil {
		scrapeController := NewScrapeController(cfg.Scraper)
		router.POST("/api/scrape", scrapeController.ScrapeBookPage)
	}

	return router
}
