package kindle

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// Extensions of sideloaded files, matched anywhere in the title.
	sideloadExtension = regexp.MustCompile(`(?i)\.(?:pdf|epub|mobi|azw3?|txt|docx?|html?|fb2|rtf)\b`)

	// Personal documents sent through Amazon get an _EBOK style suffix.
	drmSuffix = regexp.MustCompile(`(?i)(?:[\s_-]+|^)EBOK\s*$`)

	// Applied in order. Each one removes a piece of edition or packaging
	// noise from a book title.
	titleNoise = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[\(\[]\s*(?:kindle edition|edición kindle|edição kindle|édition kindle|edizione kindle|kindle[- ]ausgabe|kindle[- ]editie|kindle\s*版)\s*[\)\]]`),
		regexp.MustCompile(`(?i)\s*[-–:]\s*(?:kindle edition|edición kindle|edição kindle|édition kindle|edizione kindle|kindle[- ]ausgabe|kindle[- ]editie)\s*$`),
		regexp.MustCompile(`(?i)[\(\[]\s*(?:\d+(?:st|nd|rd|th)\s+edition|revised edition|unabridged|abridged|spanish edition|english edition|german edition|french edition|italian edition|portuguese edition)\s*[\)\]]`),
		regexp.MustCompile(`(?i)[\(\[]\s*(?:e-?book|epub|mobi|retail|z-lib(?:\.org)?|libgen)\s*[\)\]]`),
		regexp.MustCompile(`^\s*\d{1,2}\s*[-–.]\s+`),
		regexp.MustCompile(`\(\s*\)|\[\s*\]`),
	}

	trailingSeparators = regexp.MustCompile(`[\s\-–:,;_]+$`)
	horizontalSpace    = regexp.MustCompile(`[ \t\f\v]+`)
	manyBlankLines     = regexp.MustCompile(`\n{3,}`)
)

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeWhitespace applies NFC normalization, turns Unicode spaces into
// ASCII spaces, collapses runs of horizontal space and trims every line.
func NormalizeWhitespace(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\u200b' || r == '\ufeff':
			return -1
		case unicode.IsSpace(r):
			return ' '
		}
		return r
	}, s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = manyBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// IsSideloaded reports whether the raw title carries a file extension or a
// personal-document suffix.
func IsSideloaded(rawTitle string) bool {
	return sideloadExtension.MatchString(rawTitle) || drmSuffix.MatchString(rawTitle)
}

// SanitizeTitle strips file extensions, the personal-document suffix and
// edition noise from a title. The flag reports whether anything besides
// whitespace changed.
func SanitizeTitle(raw string) (string, bool) {
	base := NormalizeWhitespace(strings.ReplaceAll(raw, "\n", " "))

	title := drmSuffix.ReplaceAllString(base, "")
	title = sideloadExtension.ReplaceAllString(title, "")
	for _, p := range titleNoise {
		title = p.ReplaceAllString(title, "")
	}
	title = trailingSeparators.ReplaceAllString(title, "")
	title = NormalizeWhitespace(title)

	if title == "" {
		// Never clean a title away entirely.
		return base, false
	}
	return title, title != base
}

// ContentResult is the outcome of SanitizeContent.
type ContentResult struct {
	Content        string
	IsEmpty        bool
	IsLimitReached bool
	WasCleaned     bool
}

// SanitizeContent trims and normalizes annotation text and flags empty
// content and clipping-limit placeholders.
func SanitizeContent(raw string) ContentResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ContentResult{IsEmpty: true}
	}

	if IsLimitMessage(trimmed) {
		return ContentResult{Content: trimmed, IsLimitReached: true}
	}

	content := NormalizeWhitespace(trimmed)
	return ContentResult{
		Content:    content,
		IsEmpty:    content == "",
		WasCleaned: content != trimmed,
	}
}

// IsLimitMessage reports whether text is a localized "clipping limit
// reached" placeholder.
func IsLimitMessage(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range limitPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// CountWords counts whitespace separated words. Han, Hiragana, Katakana
// and Hangul characters count one word each since those scripts do not
// separate words with spaces.
func CountWords(s string) int {
	words := 0
	inWord := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			inWord = false
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
			words++
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	return words
}

// RuneLen is the character count used throughout the pipeline.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
