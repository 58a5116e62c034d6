package processing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mrlokans/clippings/internal/kindle"
)

const (
	// Highlights shorter than this are almost always accidental taps.
	tooShortLength = 5
	// Highlights shorter than this get their first and last character checked.
	inspectLength = 75
)

const closingPunctuation = `.!?…"'”’»)]。！？」』`

// FlagSuspicious marks short highlights that look like accidental or
// truncated selections. Longer content and records flagged by an earlier
// stage are left alone.
func FlagSuspicious(records []kindle.Record) ([]kindle.Record, int) {
	out := cloneAll(records)
	flagged := 0
	for i := range out {
		r := &out[i]
		if r.Type != kindle.TypeHighlight || r.IsSuspicious || r.IsLimitReached {
			continue
		}
		if reason, ok := SuspiciousReasonFor(r.Content); ok {
			r.IsSuspicious = true
			r.SuspiciousReason = reason
			flagged++
		}
	}
	return out, flagged
}

// SuspiciousReasonFor classifies highlight text. ok is false for text that
// looks like a deliberate selection.
func SuspiciousReasonFor(content string) (kindle.SuspiciousReason, bool) {
	content = strings.TrimSpace(content)
	n := kindle.RuneLen(content)
	switch {
	case n < tooShortLength:
		return kindle.ReasonTooShort, true
	case n >= inspectLength:
		return "", false
	}

	first, _ := utf8.DecodeRuneInString(content)
	if unicode.IsLower(first) {
		return kindle.ReasonFragment, true
	}

	last, _ := utf8.DecodeLastRuneInString(content)
	if !strings.ContainsRune(closingPunctuation, last) {
		return kindle.ReasonIncomplete, true
	}
	return "", false
}
