package processing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/kindle"
)

func TestSuspiciousReasonFor(t *testing.T) {
	tests := []struct {
		content  string
		expected kindle.SuspiciousReason
		flagged  bool
	}{
		{"", kindle.ReasonTooShort, true},
		{"abc", kindle.ReasonTooShort, true},
		{"and then he left", kindle.ReasonFragment, true},
		{"ébauche of something", kindle.ReasonFragment, true},
		{"Then he left", kindle.ReasonIncomplete, true},
		{"Then he left.", "", false},
		{"\"Who is he?\"", "", false},
		{"吾輩は猫である。", "", false},
		{strings.Repeat("lowercase words without an ending ", 3), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			reason, flagged := SuspiciousReasonFor(tt.content)
			assert.Equal(t, tt.flagged, flagged)
			assert.Equal(t, tt.expected, reason)
		})
	}
}

func TestFlagSuspicious(t *testing.T) {
	duplicate := newRecord(2, kindle.TypeHighlight, "abc")
	duplicate.IsSuspicious = true
	duplicate.SuspiciousReason = kindle.ReasonExactDuplicate

	input := []kindle.Record{
		newRecord(0, kindle.TypeHighlight, "abc"),
		newRecord(1, kindle.TypeNote, "abc"),
		duplicate,
		newRecord(3, kindle.TypeHighlight, "A complete sentence."),
	}

	out, flagged := FlagSuspicious(input)

	require.Len(t, out, 4)
	assert.Equal(t, 1, flagged)
	assert.Equal(t, kindle.ReasonTooShort, out[0].SuspiciousReason)
	assert.False(t, out[1].IsSuspicious, "notes are not inspected")
	assert.Equal(t, kindle.ReasonExactDuplicate, out[2].SuspiciousReason)
	assert.False(t, out[3].IsSuspicious)
	assert.False(t, input[0].IsSuspicious)
}
