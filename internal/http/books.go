package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
)

type BooksController struct {
	reader exporters.BookReader
}

func NewBooksController(reader exporters.BookReader) *BooksController {
	return &BooksController{
		reader: reader,
	}
}

// GetAllBooks lists stored books; ?q= narrows them by title or author.
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	var books []entities.Book
	var err error
	if query := c.Query("q"); query != "" {
		books, err = controller.reader.SearchBooks(query)
	} else {
		books, err = controller.reader.GetAllBooks()
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.reader.GetBookByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) GetBookByTitleAndAuthor(c *gin.Context) {
	title := c.Query("title")
	author := c.Query("author")

	if title == "" || author == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "title and author query parameters are required"})
		return
	}

	book, err := controller.reader.GetBookByTitleAndAuthor(title, author)
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) GetBookStats(c *gin.Context) {
	books, err := controller.reader.GetAllBooks()
	if err != nil {
		respondInternalError(c, err, "book stats")
		return
	}

	totalHighlights := 0
	byKind := make(map[string]int)
	for _, book := range books {
		totalHighlights += len(book.Highlights)
		for _, h := range book.Highlights {
			byKind[h.Kind]++
		}
	}

	stats := gin.H{
		"total_books":      len(books),
		"total_highlights": totalHighlights,
		"by_kind":          byKind,
	}

	c.IndentedJSON(http.StatusOK, stats)
}
