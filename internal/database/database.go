package database

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/clippings/internal/entities"
)

const (
	SourceKindle   = "kindle"
	SourceSideload = "sideload"
)

var defaultSources = []entities.Source{
	{Name: SourceKindle, DisplayName: "Amazon Kindle"},
	{Name: SourceSideload, DisplayName: "Sideloaded document"},
}

const highlightOrder = "location_value ASC, block_index ASC"

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Source{},
		&entities.Book{},
		&entities.Highlight{},
		&entities.Tag{},
		&entities.ImportSession{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedSources(); err != nil {
		return nil, fmt.Errorf("failed to seed sources: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedSources() error {
	for _, source := range defaultSources {
		var existing entities.Source
		result := d.DB.Where("name = ?", source.Name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&source).Error; err != nil {
				return fmt.Errorf("failed to create source %s: %w", source.Name, err)
			}
			log.Printf("Created source: %s", source.DisplayName)
		}
	}
	return nil
}

func (d *Database) GetSourceByName(name string) (*entities.Source, error) {
	var source entities.Source
	err := d.DB.Where("name = ?", name).First(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// SaveBook upserts a book and its highlights. Books are matched by title and
// author, highlights by their clipping id, so importing the same clippings
// twice leaves the database unchanged. It returns how many highlight rows
// were newly created.
func (d *Database) SaveBook(book *entities.Book) (int, error) {
	originalSource := book.Source
	if book.SourceID == 0 && book.Source.Name != "" {
		source, err := d.GetSourceByName(book.Source.Name)
		if err == nil && source != nil {
			book.SourceID = source.ID
			originalSource = *source
		}
	}

	tagCache := make(map[string]entities.Tag)
	for i := range book.Highlights {
		h := &book.Highlights[i]
		if h.SourceID == 0 {
			h.SourceID = book.SourceID
		}
		tags, err := d.resolveTags(h.Tags, tagCache)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve tags: %w", err)
		}
		h.Tags = tags
	}

	var existingBook entities.Book
	result := d.DB.Preload("Highlights").Where("title = ? AND author = ?", book.Title, book.Author).First(&existingBook)

	created := 0
	var saveErr error
	switch {
	case result.Error == nil:
		book.ID = existingBook.ID
		book.CreatedAt = existingBook.CreatedAt

		existing := make(map[string]uint, len(existingBook.Highlights))
		for _, h := range existingBook.Highlights {
			if h.ClippingID != "" {
				existing[h.ClippingID] = h.ID
			}
		}

		for i := range book.Highlights {
			h := &book.Highlights[i]
			if id, ok := existing[h.ClippingID]; ok && h.ClippingID != "" {
				h.ID = id
			} else if h.ID == 0 {
				created++
			}
			h.BookID = book.ID
		}

		saveErr = d.DB.Session(&gorm.Session{FullSaveAssociations: true}).Omit("Source", "Highlights.Source").Save(book).Error
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		created = len(book.Highlights)
		saveErr = d.DB.Omit("Source", "Highlights.Source").Create(book).Error
	default:
		saveErr = result.Error
	}

	book.Source = originalSource

	if saveErr != nil {
		return 0, saveErr
	}
	return created, nil
}

func (d *Database) resolveTags(tags []entities.Tag, cache map[string]entities.Tag) ([]entities.Tag, error) {
	if len(tags) == 0 {
		return tags, nil
	}
	out := make([]entities.Tag, 0, len(tags))
	for _, t := range tags {
		key := strings.ToLower(t.Name)
		if cached, ok := cache[key]; ok {
			out = append(out, cached)
			continue
		}
		tag, err := d.GetOrCreateTag(t.Name)
		if err != nil {
			return nil, err
		}
		cache[key] = *tag
		out = append(out, *tag)
	}
	return out, nil
}

func (d *Database) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order(highlightOrder)
	}).Preload("Highlights.Tags").Preload("Source").Where("title = ? AND author = ?", title, author).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (d *Database) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order(highlightOrder)
	}).Preload("Highlights.Tags").Preload("Source").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (d *Database) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order(highlightOrder)
	}).Preload("Highlights.Tags").Preload("Source").Order("title ASC").Find(&books).Error
	return books, err
}

func (d *Database) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	searchPattern := "%" + query + "%"
	err := d.DB.Preload("Highlights", func(db *gorm.DB) *gorm.DB {
		return db.Order(highlightOrder)
	}).Preload("Source").
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", searchPattern, searchPattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

func (d *Database) GetHighlightByClippingID(clippingID string) (*entities.Highlight, error) {
	var highlight entities.Highlight
	err := d.DB.Preload("Tags").Where("clipping_id = ?", clippingID).First(&highlight).Error
	if err != nil {
		return nil, err
	}
	return &highlight, nil
}

// GetOrCreateTag finds a tag by name, ignoring case.
func (d *Database) GetOrCreateTag(name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := d.DB.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = entities.Tag{Name: name}
		if err := d.DB.Create(&tag).Error; err != nil {
			return nil, err
		}
		return &tag, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (d *Database) GetAllTags() ([]entities.Tag, error) {
	var tags []entities.Tag
	err := d.DB.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (d *Database) CreateImportSession(session *entities.ImportSession) error {
	if session.SourceID == 0 {
		if source, err := d.GetSourceByName(SourceKindle); err == nil {
			session.SourceID = source.ID
		}
	}
	if session.Status == "" {
		session.Status = entities.ImportStatusRunning
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}
	return d.DB.Omit("Source").Create(session).Error
}

func (d *Database) UpdateImportSession(session *entities.ImportSession) error {
	return d.DB.Omit("Source").Save(session).Error
}

func (d *Database) GetImportSessions(limit int) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	query := d.DB.Preload("Source").Order("started_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

// GetLastCompletedImport returns the newest successful import of filePath.
func (d *Database) GetLastCompletedImport(filePath string) (*entities.ImportSession, error) {
	var session entities.ImportSession
	err := d.DB.Where("file_path = ? AND status = ?", filePath, entities.ImportStatusCompleted).
		Order("started_at DESC, id DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *Database) GetStats() (totalBooks int64, totalHighlights int64, err error) {
	err = d.DB.Model(&entities.Book{}).Count(&totalBooks).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.Highlight{}).Count(&totalHighlights).Error
	return
}
