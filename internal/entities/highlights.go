package entities

import (
	"time"

	"gorm.io/gorm"
)

type LocationType string

const (
	LocationTypePage     LocationType = "page"
	LocationTypeLocation LocationType = "location" // Kindle-style location
	LocationTypeNone     LocationType = "none"
)

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type Source struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50" json:"name"` // "kindle" or "sideload"
	DisplayName string    `gorm:"size:100" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type Book struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"index;size:512" json:"title"`
	Author     string         `gorm:"index;size:256" json:"author"`
	TitleRaw   string         `gorm:"size:1024" json:"title_raw,omitempty"`
	Sideloaded bool           `gorm:"default:false" json:"sideloaded"`
	SourceID   uint           `gorm:"index" json:"source_id"`
	Source     Source         `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Highlights []Highlight    `gorm:"foreignKey:BookID" json:"highlights,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Highlight stores one imported clipping. Notes, bookmarks and clips are
// stored here too, told apart by Kind.
type Highlight struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	BookID uint `gorm:"index" json:"book_id"`

	// ClippingID is the stable id computed from the clipping itself; it
	// identifies the row across re-imports.
	ClippingID string `gorm:"index;size:16" json:"clipping_id"`
	Kind       string `gorm:"size:20;default:'highlight'" json:"kind"`
	Text       string `gorm:"type:text" json:"text"`
	Note       string `gorm:"type:text" json:"note,omitempty"`

	// Location information
	LocationType  LocationType `gorm:"size:20;default:'location'" json:"location_type"`
	LocationValue int          `json:"location_value,omitempty"`
	LocationEnd   int          `json:"location_end,omitempty"` // For ranges
	LocationRaw   string       `gorm:"size:32" json:"location_raw,omitempty"`
	Page          int          `json:"page,omitempty"`

	// Metadata
	HighlightedAt time.Time `json:"highlighted_at,omitempty"`
	DateRaw       string    `gorm:"size:128" json:"date_raw,omitempty"`
	Language      string    `gorm:"size:5" json:"language,omitempty"`
	WordCount     int       `json:"word_count"`
	BlockIndex    int       `json:"block_index"`

	// Review flags
	IsSuspicious        bool    `gorm:"default:false" json:"is_suspicious"`
	SuspiciousReason    string  `gorm:"size:32" json:"suspicious_reason,omitempty"`
	PossibleDuplicateOf string  `gorm:"size:16" json:"possible_duplicate_of,omitempty"`
	SimilarityScore     float64 `json:"similarity_score,omitempty"`

	SourceID uint   `gorm:"index" json:"source_id"`
	Source   Source `gorm:"foreignKey:SourceID" json:"source,omitempty"`

	// Relationships
	Book Book  `gorm:"foreignKey:BookID" json:"-"`
	Tags []Tag `gorm:"many2many:highlight_tags;" json:"tags,omitempty"`

	// Timestamps
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Tag struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"uniqueIndex;size:100" json:"name"`
	Highlights []Highlight `gorm:"many2many:highlight_tags;" json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ImportSession records one run of the clippings import.
type ImportSession struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	SourceID            uint         `gorm:"index" json:"source_id"`
	Status              ImportStatus `gorm:"size:20;default:'running'" json:"status"`
	FilePath            string       `gorm:"size:1024" json:"file_path,omitempty"`
	ContentHash         string       `gorm:"index;size:64" json:"content_hash,omitempty"`
	RecordsParsed       int          `json:"records_parsed"`
	Warnings            int          `json:"warnings"`
	BooksProcessed      int          `json:"books_processed"`
	HighlightsProcessed int          `json:"highlights_processed"`
	HighlightsCreated   int          `json:"highlights_created"`
	Errors              string       `gorm:"type:text" json:"errors,omitempty"` // JSON array of errors
	StartedAt           time.Time    `json:"started_at"`
	CompletedAt         *time.Time   `json:"completed_at,omitempty"`
	Source              Source       `gorm:"foreignKey:SourceID" json:"source,omitempty"`
}

func (Tag) TableName() string {
	return "tags"
}

func (Source) TableName() string {
	return "sources"
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
