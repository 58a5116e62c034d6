package kindle

import (
	"time"
)

// RecordType is the kind of annotation a clipping block describes.
type RecordType string

const (
	TypeHighlight RecordType = "highlight"
	TypeNote      RecordType = "note"
	TypeBookmark  RecordType = "bookmark"
	TypeClip      RecordType = "clip"
	TypeArticle   RecordType = "article"
)

// RecordTypes lists every record type in a stable order.
var RecordTypes = []RecordType{TypeHighlight, TypeNote, TypeBookmark, TypeClip, TypeArticle}

// ParseRecordType resolves a type name, case-insensitively.
func ParseRecordType(s string) (RecordType, bool) {
	for _, t := range RecordTypes {
		if string(t) == lowerTrim(s) {
			return t, true
		}
	}
	return "", false
}

// Source tells whether the book was bought from the store or sideloaded.
type Source string

const (
	SourceKindle   Source = "kindle"
	SourceSideload Source = "sideload"
)

// SuspiciousReason explains why a highlight was flagged for review.
type SuspiciousReason string

const (
	ReasonTooShort       SuspiciousReason = "too_short"
	ReasonFragment       SuspiciousReason = "fragment"
	ReasonIncomplete     SuspiciousReason = "incomplete"
	ReasonExactDuplicate SuspiciousReason = "exact_duplicate"
	ReasonOverlapping    SuspiciousReason = "overlapping"
)

// RawBlock is one separator-delimited fragment of the clippings file.
type RawBlock struct {
	Index   int
	RawText string
	Lines   []string
}

// Location is a Kindle location, either a single point or a range.
type Location struct {
	Raw   string `json:"raw"`
	Start int    `json:"start"`
	End   *int   `json:"end"`
}

// EndOrStart returns the closing bound of the range, or Start for a point.
func (l Location) EndOrStart() int {
	if l.End != nil {
		return *l.End
	}
	return l.Start
}

// Links holds the cross references created by note linking and tag extraction.
type Links struct {
	LinkedNoteID      string   `json:"linkedNoteId,omitempty"`
	LinkedHighlightID string   `json:"linkedHighlightId,omitempty"`
	Note              string   `json:"note,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}

// Quality holds flags attached by the parser and the processing stages.
type Quality struct {
	IsSuspicious        bool             `json:"isSuspiciousHighlight,omitempty"`
	SuspiciousReason    SuspiciousReason `json:"suspiciousReason,omitempty"`
	SimilarityScore     *float64         `json:"similarityScore,omitempty"`
	PossibleDuplicateOf string           `json:"possibleDuplicateOf,omitempty"`
	TitleWasCleaned     bool             `json:"titleWasCleaned,omitempty"`
	ContentWasCleaned   bool             `json:"contentWasCleaned,omitempty"`
}

// Record is a single parsed annotation.
type Record struct {
	ID string `json:"id"`

	Title     string `json:"title"`
	TitleRaw  string `json:"titleRaw"`
	Author    string `json:"author"`
	AuthorRaw string `json:"authorRaw"`

	Content    string     `json:"content"`
	ContentRaw string     `json:"contentRaw"`
	Type       RecordType `json:"type"`

	Page     *int       `json:"page"`
	Location Location   `json:"location"`
	Date     *time.Time `json:"date"`
	DateRaw  string     `json:"dateRaw"`

	IsLimitReached bool     `json:"isLimitReached"`
	IsEmpty        bool     `json:"isEmpty"`
	Source         Source   `json:"source"`
	Language       Language `json:"language"`

	WordCount int `json:"wordCount"`
	CharCount int `json:"charCount"`

	// BlockIndex is the position of the block in the file and the only
	// total order records carry.
	BlockIndex int `json:"blockIndex"`

	Links
	Quality
}

// BookKey groups records of the same book regardless of letter case.
func (r Record) BookKey() string {
	return lowerTrim(r.Title) + "|" + lowerTrim(r.Author)
}

// Clone returns a copy that shares no mutable slices with r.
func (r Record) Clone() Record {
	if r.Tags != nil {
		r.Tags = append([]string(nil), r.Tags...)
	}
	return r
}
