package processing

import (
	"strings"
	"unicode"

	"github.com/mrlokans/clippings/internal/kindle"
)

const (
	minTagLength    = 2
	maxTagLength    = 50
	maxTagInnerGaps = 3
)

var tagSeparators = func(r rune) bool {
	switch r {
	case ',', ';', '\n', '.', '，', '；', '。', '、':
		return true
	}
	return false
}

// Sentences usually open with one of these, tags rarely do.
var functionWords = map[string]struct{}{
	// en
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "of": {}, "to": {},
	"in": {}, "on": {}, "at": {}, "for": {}, "with": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "be": {}, "this": {}, "that": {}, "these": {}, "those": {}, "it": {}, "its": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "we": {}, "they": {}, "my": {}, "your": {},
	"his": {}, "her": {}, "our": {}, "their": {}, "not": {}, "so": {}, "as": {}, "by": {},
	"from": {}, "what": {}, "why": {}, "how": {},
	// es, pt, it
	"el": {}, "la": {}, "los": {}, "las": {}, "un": {}, "una": {}, "y": {}, "que": {}, "de": {},
	"en": {}, "o": {}, "os": {}, "um": {}, "uma": {}, "il": {}, "lo": {}, "gli": {}, "che": {},
	// de, nl
	"der": {}, "die": {}, "das": {}, "und": {}, "ein": {}, "eine": {}, "ist": {}, "het": {},
	"een": {},
	// fr
	"le": {}, "les": {}, "une": {}, "et": {}, "ou": {}, "des": {}, "du": {}, "est": {},
}

// ExtractTags turns the embedded note of every highlight into tags and
// merges them with the tags the highlight already has.
func ExtractTags(records []kindle.Record, tagCase TagCase) []kindle.Record {
	out := cloneAll(records)
	for i := range out {
		r := &out[i]
		if r.Type != kindle.TypeHighlight || r.Note == "" {
			continue
		}
		if tags := ParseTags(r.Note, tagCase); len(tags) > 0 {
			r.Tags = mergeTags(r.Tags, tags)
		}
	}
	return out
}

// ParseTags splits note text into tag candidates and keeps the ones that
// look like tags rather than prose.
func ParseTags(note string, tagCase TagCase) []string {
	var tags []string
	for _, candidate := range strings.FieldsFunc(note, tagSeparators) {
		tag, ok := cleanTag(candidate, tagCase)
		if ok {
			tags = mergeTags(tags, []string{tag})
		}
	}
	return tags
}

func cleanTag(candidate string, tagCase TagCase) (string, bool) {
	tag := strings.TrimSpace(candidate)
	tag = strings.TrimLeft(tag, "#@")
	tag = strings.TrimRightFunc(tag, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	tag = strings.Join(strings.Fields(tag), " ")

	n := kindle.RuneLen(tag)
	if n < minTagLength || n > maxTagLength {
		return "", false
	}
	if strings.Count(tag, " ") > maxTagInnerGaps {
		return "", false
	}
	first := strings.ToLower(strings.Fields(tag)[0])
	if _, ok := functionWords[first]; ok {
		return "", false
	}

	switch tagCase {
	case TagCaseUppercase:
		tag = strings.ToUpper(tag)
	case TagCaseLowercase:
		tag = strings.ToLower(tag)
	}
	return tag, true
}

// mergeTags appends the tags of extra missing from base, comparing
// case-insensitively. base is never modified in place.
func mergeTags(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, t := range list {
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
