package exporters

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/utils"
)

// MarkdownExporter writes one Obsidian note per book into
// OutputDir/<source>/.
type MarkdownExporter struct {
	OutputDir string
	Result    ExportResult
}

func NewMarkdownExporter(outputDir string) *MarkdownExporter {
	return &MarkdownExporter{
		OutputDir: outputDir,
		Result:    ExportResult{},
	}
}

func (exporter *MarkdownExporter) ensureDir() error {
	if exporter.OutputDir == "" {
		return fmt.Errorf("markdown output directory is not configured")
	}
	if err := os.MkdirAll(exporter.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}

func sourceFolder(book *entities.Book) string {
	if book.Source.Name != "" {
		return book.Source.Name
	}
	return "unknown"
}

func (exporter *MarkdownExporter) exportBook(book *entities.Book) (string, error) {
	sourceDir := filepath.Join(exporter.OutputDir, sourceFolder(book))
	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create source directory: %w", err)
	}

	outputPath := filepath.Join(sourceDir, utils.BookFileName(book.Title, book.Author)+".md")
	if err := os.WriteFile(outputPath, []byte(GenerateMarkdown(book)), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

func quoteYAML(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

// obsidianTag turns a tag name into something Obsidian accepts after '#'.
func obsidianTag(name string) string {
	return strings.Join(strings.Fields(name), "-")
}

func highlightHeading(h entities.Highlight) string {
	var parts []string
	if !h.HighlightedAt.IsZero() {
		parts = append(parts, h.HighlightedAt.Format("2006-01-02 15:04"))
	} else if h.DateRaw != "" {
		parts = append(parts, h.DateRaw)
	}
	if h.Page > 0 {
		parts = append(parts, fmt.Sprintf("Page %d", h.Page))
	}
	if h.LocationRaw != "" {
		parts = append(parts, "Location "+h.LocationRaw)
	}
	return strings.Join(parts, " · ")
}

func GenerateMarkdown(book *entities.Book) string {
	var builder strings.Builder

	currentDateTime := time.Now().Format("2006-01-02")
	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_source: %s\n", sourceFolder(book))
	fmt.Fprintf(&builder, "content_type: book_highlights\n")
	fmt.Fprintf(&builder, "created_at: %s\n", currentDateTime)
	fmt.Fprintf(&builder, "title: %s\n", quoteYAML(book.Title))
	fmt.Fprintf(&builder, "author: %s\n", quoteYAML(book.Author))
	if book.Sideloaded {
		fmt.Fprintf(&builder, "sideloaded: true\n")
	}
	fmt.Fprintf(&builder, "tags: [highlights, books]\n")
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "## Highlights\n\n")

	var bookmarks []entities.Highlight
	for _, highlight := range book.Highlights {
		if highlight.Kind == "bookmark" {
			bookmarks = append(bookmarks, highlight)
			continue
		}

		callout := utils.KindToCalloutType(highlight.Kind, highlight.IsSuspicious)
		heading := highlightHeading(highlight)
		if heading != "" {
			fmt.Fprintf(&builder, "> [!%s] %s\n", callout, heading)
		} else {
			fmt.Fprintf(&builder, "> [!%s]\n", callout)
		}
		if highlight.Text != "" {
			fmt.Fprintf(&builder, "> %s\n", strings.ReplaceAll(highlight.Text, "\n", "\n> "))
		}
		builder.WriteString("\n")

		if highlight.Note != "" {
			fmt.Fprintf(&builder, "**Note:** %s\n\n", strings.ReplaceAll(highlight.Note, "\n\n", "\n"))
		}
		if len(highlight.Tags) > 0 {
			tags := make([]string, 0, len(highlight.Tags))
			for _, tag := range highlight.Tags {
				tags = append(tags, "#"+obsidianTag(tag.Name))
			}
			fmt.Fprintf(&builder, "%s\n\n", strings.Join(tags, " "))
		}
	}

	if len(bookmarks) > 0 {
		fmt.Fprintf(&builder, "## Bookmarks\n\n")
		for _, b := range bookmarks {
			fmt.Fprintf(&builder, "- %s\n", highlightHeading(b))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

func (exporter *MarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	// Reset result state for each export
	exporter.Result = ExportResult{}

	if err := exporter.ensureDir(); err != nil {
		return ExportResult{}, err
	}

	for i := range books {
		book := &books[i]
		path, err := exporter.exportBook(book)
		if err != nil {
			log.Printf("Failed to export book '%s' to markdown: %v", book.Title, err)
			exporter.Result.BooksFailed++
			exporter.Result.HighlightsFailed += len(book.Highlights)
			continue
		}
		log.Printf("Exported book '%s' to %s", book.Title, path)
		exporter.Result.BooksProcessed++
		exporter.Result.HighlightsProcessed += len(book.Highlights)
	}

	return exporter.Result, nil
}

var _ BookExporter = (*MarkdownExporter)(nil)
