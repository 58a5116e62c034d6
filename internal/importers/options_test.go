package importers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/processing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, kindle.LanguageAuto, opts.Language)
	assert.True(t, opts.RemoveDuplicates)
	assert.True(t, opts.MergeNotes)
	assert.False(t, opts.Strict)
	assert.Equal(t, processing.TagCaseOriginal, opts.TagCase)
	assert.Equal(t, processing.DefaultFuzzyThreshold, opts.FuzzyThreshold)
}

func TestOptions_ProcessingOptions(t *testing.T) {
	opts := Options{
		RemoveDuplicates: true,
		ExtractTags:      true,
		TagCase:          processing.TagCaseUppercase,
		HighlightsOnly:   true,
		ExcludeTypes:     []kindle.RecordType{kindle.TypeBookmark},
		OnlyBooks:        []string{"Dune"},
		MinContentLength: 10,
		FuzzyThreshold:   0.9,
		Strict:           true,
	}

	p := opts.processingOptions()

	assert.True(t, p.RemoveDuplicates)
	assert.True(t, p.ExtractTags)
	assert.Equal(t, processing.TagCaseUppercase, p.TagCase)
	assert.True(t, p.HighlightsOnly)
	assert.Equal(t, []kindle.RecordType{kindle.TypeBookmark}, p.ExcludeTypes)
	assert.Equal(t, []string{"Dune"}, p.OnlyBooks)
	assert.Equal(t, 10, p.MinContentLength)
	assert.Equal(t, 0.9, p.FuzzyThreshold)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"a", "b c"}, SplitList(" a, ,b c,"))
}

func TestParseTypeList(t *testing.T) {
	types, err := ParseTypeList("bookmark, Note")
	require.NoError(t, err)
	assert.Equal(t, []kindle.RecordType{kindle.TypeBookmark, kindle.TypeNote}, types)

	_, err = ParseTypeList("highlight,scribble")
	assert.Error(t, err)
}
