package exporters

import (
	"fmt"
	"log"

	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/entities"
)

// DatabaseMarkdownExporter saves books to the database and, when a
// markdown directory is configured, rewrites each book's note from the
// stored state so the note covers every import so far.
type DatabaseMarkdownExporter struct {
	db               *database.Database
	markdownExporter *MarkdownExporter
}

func NewDatabaseMarkdownExporter(db *database.Database, markdownDir string) *DatabaseMarkdownExporter {
	exporter := &DatabaseMarkdownExporter{db: db}
	if markdownDir != "" {
		exporter.markdownExporter = NewMarkdownExporter(markdownDir)
	}
	return exporter
}

func (exporter *DatabaseMarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{}
	var saved []entities.Book

	for i := range books {
		book := &books[i]
		created, err := exporter.db.SaveBook(book)
		if err != nil {
			log.Printf("Failed to save book '%s' by %s to database: %v", book.Title, book.Author, err)
			result.BooksFailed++
			result.HighlightsFailed += len(book.Highlights)
			continue
		}
		result.BooksProcessed++
		result.HighlightsProcessed += len(book.Highlights)
		result.HighlightsCreated += created
		log.Printf("Saved book '%s' by %s (id %d): %d clippings, %d new", book.Title, book.Author, book.ID, len(book.Highlights), created)

		if exporter.markdownExporter == nil {
			continue
		}
		stored, err := exporter.db.GetBookByID(book.ID)
		if err != nil {
			log.Printf("Failed to reload book '%s' for markdown export: %v", book.Title, err)
			stored = book
		}
		saved = append(saved, *stored)
	}

	if exporter.markdownExporter == nil || len(saved) == 0 {
		return result, nil
	}

	markdownResult, err := exporter.markdownExporter.Export(saved)
	if err != nil {
		return result, fmt.Errorf("failed to export to markdown: %w", err)
	}
	result.BooksFailed += markdownResult.BooksFailed
	result.HighlightsFailed += markdownResult.HighlightsFailed

	log.Printf("Export completed: %d books processed, %d highlights processed (%d new), %d books failed",
		result.BooksProcessed, result.HighlightsProcessed, result.HighlightsCreated, result.BooksFailed)

	return result, nil
}

// GetAllBooks retrieves all books from the database.
// Implements BookReader interface.
func (exporter *DatabaseMarkdownExporter) GetAllBooks() ([]entities.Book, error) {
	return exporter.db.GetAllBooks()
}

// GetBookByTitleAndAuthor retrieves a specific book from the database.
// Implements BookReader interface.
func (exporter *DatabaseMarkdownExporter) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	return exporter.db.GetBookByTitleAndAuthor(title, author)
}

// GetBookByID retrieves a book by its ID from the database.
// Implements BookReader interface.
func (exporter *DatabaseMarkdownExporter) GetBookByID(id uint) (*entities.Book, error) {
	return exporter.db.GetBookByID(id)
}

// SearchBooks searches books by title or author (case-insensitive partial match).
// Implements BookReader interface.
func (exporter *DatabaseMarkdownExporter) SearchBooks(query string) ([]entities.Book, error) {
	return exporter.db.SearchBooks(query)
}

// Compile-time interface implementation checks
var _ BookReader = (*DatabaseMarkdownExporter)(nil)
var _ BookExporter = (*DatabaseMarkdownExporter)(nil)
