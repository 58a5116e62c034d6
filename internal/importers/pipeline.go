package importers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/processing"
)

var (
	// ErrStrict is returned in strict mode when parsing produced warnings.
	ErrStrict = errors.New("clippings contain warnings")
	// ErrEmptyInput is returned by Import for an empty clippings file.
	ErrEmptyInput = errors.New("clippings file is empty")
	// ErrTooLarge is returned by ReadText for oversized input.
	ErrTooLarge = errors.New("clippings file too large")
	// ErrNoExporter is returned by Import when the pipeline has nowhere to
	// send the books.
	ErrNoExporter = errors.New("no exporter configured")
)

// Result is the outcome of parsing and processing one clippings file.
type Result struct {
	Records  []kindle.Record  `json:"records"`
	Warnings []kindle.Warning `json:"warnings"`
	Stats    processing.Stats `json:"stats"`
}

// ImportResult is a Result plus what the exporter did with it.
type ImportResult struct {
	Result
	Export    exporters.ExportResult `json:"export"`
	SessionID uint                   `json:"sessionId,omitempty"`
}

// Exporter persists books to storage.
type Exporter interface {
	Export(books []entities.Book) (exporters.ExportResult, error)
}

// SessionStore records import runs.
type SessionStore interface {
	CreateImportSession(session *entities.ImportSession) error
	UpdateImportSession(session *entities.ImportSession) error
}

// Pipeline handles the common import workflow:
// parse → process → group by book → export.
type Pipeline struct {
	exporter Exporter
	sessions SessionStore
}

// NewPipeline creates a new import pipeline with the given exporter. A nil
// exporter is fine for pipelines that only Parse.
func NewPipeline(exporter Exporter) *Pipeline {
	return &Pipeline{exporter: exporter}
}

// WithSessions makes Import record every run in store.
func (p *Pipeline) WithSessions(store SessionStore) *Pipeline {
	p.sessions = store
	return p
}

// Parse runs the parser and the processing stages. The result is always
// returned, even together with ErrStrict.
func (p *Pipeline) Parse(text string, opts Options) (Result, error) {
	parser := kindle.NewParser(kindle.ParseOptions{
		Language:    opts.Language,
		MaxWarnings: opts.MaxWarnings,
	})
	parsed := parser.Parse(text)
	processed := processing.Run(parsed.Records, opts.processingOptions())

	result := Result{
		Records:  processed.Records,
		Warnings: parsed.Warnings,
		Stats:    processed.Stats,
	}
	if result.Records == nil {
		result.Records = []kindle.Record{}
	}
	if result.Warnings == nil {
		result.Warnings = []kindle.Warning{}
	}

	if opts.Strict && len(result.Warnings) > 0 {
		return result, fmt.Errorf("%w: %d warnings", ErrStrict, len(result.Warnings))
	}
	return result, nil
}

// Import parses text and exports the resulting books.
func (p *Pipeline) Import(text string, opts Options) (ImportResult, error) {
	if strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF")) == "" {
		return ImportResult{}, ErrEmptyInput
	}
	if p.exporter == nil {
		return ImportResult{}, ErrNoExporter
	}

	session := p.startSession(text, opts.SourcePath)

	parsed, err := p.Parse(text, opts)
	result := ImportResult{Result: parsed}
	if err != nil {
		p.finishSession(session, result, err)
		return result, err
	}

	books := ToBooks(parsed.Records)
	if len(books) > 0 {
		exportResult, err := p.exporter.Export(books)
		if err != nil {
			err = fmt.Errorf("failed to export clippings: %w", err)
			p.finishSession(session, result, err)
			return result, err
		}
		result.Export = exportResult
	}

	p.finishSession(session, result, nil)
	if session != nil {
		result.SessionID = session.ID
	}

	log.Printf("Imported %d clippings into %d books (%d new, %d warnings)",
		len(parsed.Records), result.Export.BooksProcessed, result.Export.HighlightsCreated, len(parsed.Warnings))

	return result, nil
}

// ContentHash is the hex sha256 of a clippings file, used to recognize
// files that were already imported.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (p *Pipeline) startSession(text, path string) *entities.ImportSession {
	if p.sessions == nil {
		return nil
	}
	session := &entities.ImportSession{
		Status:      entities.ImportStatusRunning,
		FilePath:    path,
		ContentHash: ContentHash(text),
		StartedAt:   time.Now(),
	}
	if err := p.sessions.CreateImportSession(session); err != nil {
		log.Printf("Failed to record import session: %v", err)
		return nil
	}
	return session
}

func (p *Pipeline) finishSession(session *entities.ImportSession, result ImportResult, importErr error) {
	if session == nil {
		return
	}

	now := time.Now()
	session.CompletedAt = &now
	session.RecordsParsed = len(result.Records)
	session.Warnings = len(result.Warnings)
	session.BooksProcessed = result.Export.BooksProcessed
	session.HighlightsProcessed = result.Export.HighlightsProcessed
	session.HighlightsCreated = result.Export.HighlightsCreated
	session.Status = entities.ImportStatusCompleted

	if importErr != nil {
		session.Status = entities.ImportStatusFailed
		if data, err := json.Marshal([]string{importErr.Error()}); err == nil {
			session.Errors = string(data)
		}
	}

	if err := p.sessions.UpdateImportSession(session); err != nil {
		log.Printf("Failed to update import session %d: %v", session.ID, err)
	}
}
