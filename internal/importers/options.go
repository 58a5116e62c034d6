package importers

import (
	"fmt"
	"strings"

	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/processing"
)

// Options are the user-facing import settings.
type Options struct {
	Language         kindle.Language     `json:"language"`
	RemoveDuplicates bool                `json:"removeDuplicates"`
	MergeNotes       bool                `json:"mergeNotes"`
	ExtractTags      bool                `json:"extractTags"`
	TagCase          processing.TagCase  `json:"tagCase"`
	MergeOverlapping bool                `json:"mergeOverlapping"`
	HighlightsOnly   bool                `json:"highlightsOnly"`
	ExcludeTypes     []kindle.RecordType `json:"excludeTypes,omitempty"`
	ExcludeBooks     []string            `json:"excludeBooks,omitempty"`
	OnlyBooks        []string            `json:"onlyBooks,omitempty"`
	MinContentLength int                 `json:"minContentLength"`
	Strict           bool                `json:"strict"`
	FuzzyThreshold   float64             `json:"fuzzyThreshold"`
	MaxWarnings      int                 `json:"-"`
	SourcePath       string              `json:"-"`
}

// DefaultOptions detects the language, removes exact duplicates and
// attaches notes to their highlights.
func DefaultOptions() Options {
	return Options{
		Language:         kindle.LanguageAuto,
		RemoveDuplicates: true,
		MergeNotes:       true,
		TagCase:          processing.TagCaseOriginal,
		FuzzyThreshold:   processing.DefaultFuzzyThreshold,
		MaxWarnings:      kindle.DefaultMaxWarnings,
	}
}

func (o Options) processingOptions() processing.Options {
	return processing.Options{
		RemoveDuplicates: o.RemoveDuplicates,
		MergeNotes:       o.MergeNotes,
		ExtractTags:      o.ExtractTags,
		TagCase:          o.TagCase,
		MergeOverlapping: o.MergeOverlapping,
		HighlightsOnly:   o.HighlightsOnly,
		ExcludeTypes:     o.ExcludeTypes,
		ExcludeBooks:     o.ExcludeBooks,
		OnlyBooks:        o.OnlyBooks,
		MinContentLength: o.MinContentLength,
		FuzzyThreshold:   o.FuzzyThreshold,
	}
}

// SplitList splits a comma separated flag value, dropping empty items.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseTypeList parses a comma separated list of record type names.
func ParseTypeList(value string) ([]kindle.RecordType, error) {
	var types []kindle.RecordType
	for _, item := range SplitList(value) {
		t, ok := kindle.ParseRecordType(item)
		if !ok {
			return nil, fmt.Errorf("unknown record type %q", item)
		}
		types = append(types, t)
	}
	return types, nil
}
