package processing

import (
	"fmt"
	"strings"

	"github.com/mrlokans/clippings/internal/kindle"
)

// TagCase controls the letter case of extracted tags.
type TagCase string

const (
	TagCaseOriginal  TagCase = "original"
	TagCaseUppercase TagCase = "uppercase"
	TagCaseLowercase TagCase = "lowercase"
)

// ParseTagCase accepts the three case names; empty means original.
func ParseTagCase(s string) (TagCase, error) {
	switch TagCase(strings.ToLower(strings.TrimSpace(s))) {
	case "", TagCaseOriginal:
		return TagCaseOriginal, nil
	case TagCaseUppercase:
		return TagCaseUppercase, nil
	case TagCaseLowercase:
		return TagCaseLowercase, nil
	}
	return TagCaseOriginal, fmt.Errorf("unknown tag case %q", s)
}

// DefaultFuzzyThreshold is the Jaccard similarity at which two nearby
// highlights are reported as possible duplicates.
const DefaultFuzzyThreshold = 0.8

// Options selects the optional pipeline stages and filters.
type Options struct {
	// RemoveDuplicates drops exact duplicates; otherwise they are flagged.
	RemoveDuplicates bool
	MergeNotes       bool
	ExtractTags      bool
	TagCase          TagCase
	MergeOverlapping bool
	HighlightsOnly   bool

	ExcludeTypes     []kindle.RecordType
	ExcludeBooks     []string
	OnlyBooks        []string
	MinContentLength int

	// FuzzyThreshold falls back to DefaultFuzzyThreshold when not positive.
	FuzzyThreshold float64
}

func (o Options) fuzzyThreshold() float64 {
	if o.FuzzyThreshold <= 0 {
		return DefaultFuzzyThreshold
	}
	return o.FuzzyThreshold
}

// Counters are the per-stage totals reported with every run.
type Counters struct {
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	DuplicatesFlagged int `json:"duplicatesFlagged"`
	LinkedNotes       int `json:"linkedNotes"`
	NotesRemoved      int `json:"notesRemoved"`
	MergedHighlights  int `json:"mergedHighlights"`
	OverlapsFlagged   int `json:"overlapsFlagged"`
	SuspiciousFlagged int `json:"suspiciousFlagged"`
	FuzzyFlagged      int `json:"fuzzyFlagged"`
	Filtered          int `json:"filtered"`
}
