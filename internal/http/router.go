package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	clippingsController := NewClippingsController(cfg.Pipeline, cfg.ImportOptions)
	booksController := NewBooksController(cfg.BookReader)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Clippings endpoints
	router.POST("/api/clippings/parse", clippingsController.Parse)
	router.POST("/api/clippings/import", clippingsController.Import)

	// Books API endpoints
	router.GET("/api/books", booksController.GetAllBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.GET("/api/books/search", booksController.GetBookByTitleAndAuthor)
	router.GET("/api/books/stats", booksController.GetBookStats)

	// Tags and single highlights
	if cfg.TagStore != nil {
		tagsController := NewTagsController(cfg.TagStore)
		router.GET("/api/tags", tagsController.GetAllTags)
		router.GET("/api/highlights/:clipping_id", tagsController.GetHighlight)
	}

	// Import history
	if cfg.SessionStore != nil {
		importsController := NewImportsController(cfg.SessionStore)
		router.GET("/api/imports", importsController.ListSessions)
	}

	return router
}
