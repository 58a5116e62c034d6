package exporters

import "github.com/mrlokans/clippings/internal/entities"

type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

// BookReader provides read-only access to stored books.
type BookReader interface {
	GetAllBooks() ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	GetBookByTitleAndAuthor(title, author string) (*entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
}

type ExportResult struct {
	BooksProcessed      int `json:"books_processed"`
	HighlightsProcessed int `json:"highlights_processed"`
	HighlightsCreated   int `json:"highlights_created"`
	BooksFailed         int `json:"books_failed"`
	HighlightsFailed    int `json:"highlights_failed"`
}
