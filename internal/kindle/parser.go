package kindle

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// UnknownAuthor is used when the title line carries no author.
const UnknownAuthor = "Unknown"

// metadataPrefix starts every well-formed metadata line, e.g.
// "- Your Highlight on page 8 | Location 64-64 | Added on ...".
const metadataPrefix = "-"

// ParseOptions controls how clippings are parsed.
type ParseOptions struct {
	// Language of the Kindle interface; LanguageAuto detects it per block.
	Language Language
	// MaxWarnings caps the warnings kept per kind (DefaultMaxWarnings if 0).
	MaxWarnings int
}

// ParseResult is the outcome of parsing a clippings file.
type ParseResult struct {
	Records  []Record
	Warnings []Warning
	// Blocks is the number of blocks the tokenizer produced.
	Blocks int
}

// Parser parses Kindle My Clippings.txt content.
type Parser struct {
	opts ParseOptions
}

func NewParser(opts ParseOptions) *Parser {
	return &Parser{opts: opts}
}

// ParseReader reads the whole clippings file and parses it.
func (p *Parser) ParseReader(r io.Reader) (ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("error reading clippings: %w", err)
	}
	return p.Parse(string(data)), nil
}

// Parse tokenizes text and parses every block. It never fails: blocks that
// cannot be understood end up as warnings.
func (p *Parser) Parse(text string) ParseResult {
	diag := NewDiagnostics(p.opts.MaxWarnings)
	blocks := Tokenize(text)

	records := make([]Record, 0, len(blocks))
	for _, block := range blocks {
		if record, ok := parseBlockSafely(block, p.opts.Language, diag); ok {
			records = append(records, record)
		}
	}

	return ParseResult{
		Records:  records,
		Warnings: diag.Warnings(),
		Blocks:   len(blocks),
	}
}

func parseBlockSafely(block RawBlock, lang Language, diag *Diagnostics) (record Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			diag.Add(WarningUnparsable, block.Index, "block %d could not be parsed: %v", block.Index, r)
			record, ok = Record{}, false
		}
	}()
	return ParseBlock(block, lang, diag)
}

// ParseBlock turns one raw block into a record. The bool is false when the
// block holds nothing usable; the reason is recorded in diag.
func ParseBlock(block RawBlock, lang Language, diag *Diagnostics) (Record, bool) {
	lines := nonEmptyLines(block.Lines)
	if len(lines) < 2 {
		diag.Add(WarningUnparsable, block.Index, "block %d has fewer than two lines", block.Index)
		return Record{}, false
	}

	titleLine := strings.TrimSpace(strings.TrimLeft(lines[0], byteOrderMark))
	titleRaw, authorRaw := parseTitleAuthor(titleLine)
	metadata := lines[1]

	if !strings.HasPrefix(metadata, metadataPrefix) {
		diag.Add(WarningInvalidMetadata, block.Index, "block %d: metadata line %q does not start with %q", block.Index, truncate(metadata, 80), metadataPrefix)

		content := strings.Join(lines[1:], "\n")
		if strings.TrimSpace(content) == "" {
			diag.Add(WarningUnparsable, block.Index, "block %d has no usable content", block.Index)
			return Record{}, false
		}
		if !lang.Valid() {
			lang = FallbackLanguage
		}
		return buildRecord(block, lang, titleRaw, authorRaw, TypeArticle, nil, Location{}, "", content), true
	}

	patterns, entryType, known := detectLanguage(metadata, lang)
	if !known {
		diag.Add(WarningUnknownType, block.Index, "block %d: no annotation type keyword in %q", block.Index, truncate(metadata, 80))
		entryType = TypeArticle
	}

	page := parsePage(patterns.Page, metadata)
	location := parseLocationRange(patterns.Location, metadata)
	dateRaw := extractDateText(patterns.AddedOn, metadata)

	content := strings.Join(lines[2:], "\n")
	if entryType == TypeBookmark {
		content = ""
	}

	record := buildRecord(block, patterns.Language, titleRaw, authorRaw, entryType, page, location, dateRaw, content)
	return record, true
}

func buildRecord(block RawBlock, lang Language, titleRaw, authorRaw string, t RecordType, page *int, location Location, dateRaw, contentRaw string) Record {
	title, titleCleaned := SanitizeTitle(titleRaw)

	author := NormalizeWhitespace(authorRaw)
	if author == "" {
		author = UnknownAuthor
	}

	source := SourceKindle
	if IsSideloaded(titleRaw) {
		source = SourceSideload
	}

	content := SanitizeContent(contentRaw)

	return Record{
		ID:             GenerateClippingID(title, location.Raw, t, content.Content),
		Title:          title,
		TitleRaw:       titleRaw,
		Author:         author,
		AuthorRaw:      authorRaw,
		Content:        content.Content,
		ContentRaw:     contentRaw,
		Type:           t,
		Page:           page,
		Location:       location,
		Date:           ParseDate(dateRaw, lang),
		DateRaw:        dateRaw,
		IsLimitReached: content.IsLimitReached,
		IsEmpty:        content.IsEmpty,
		Source:         source,
		Language:       lang,
		WordCount:      CountWords(content.Content),
		CharCount:      RuneLen(content.Content),
		BlockIndex:     block.Index,
		Quality: Quality{
			TitleWasCleaned:   titleCleaned,
			ContentWasCleaned: content.WasCleaned,
		},
	}
}

// detectLanguage picks the pattern table for a metadata line. A concrete
// language is used as is; auto probes every language in order and falls
// back to FallbackLanguage.
func detectLanguage(metadata string, lang Language) (*LanguagePatterns, RecordType, bool) {
	if lang.Valid() {
		p := PatternsFor(lang)
		t, ok := p.DetectType(metadata)
		return p, t, ok
	}
	for _, l := range Languages() {
		p := PatternsFor(l)
		if t, ok := p.DetectType(metadata); ok {
			return p, t, true
		}
	}
	return PatternsFor(FallbackLanguage), "", false
}

// parseTitleAuthor splits "Title (Author)" on the last top-level pair of
// parentheses, scanning right to left so nested pairs stay in the title.
func parseTitleAuthor(line string) (title, author string) {
	runes := []rune(line)

	closing := -1
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ')' {
			closing = i
			break
		}
	}
	if closing == -1 {
		return strings.TrimSpace(line), ""
	}

	depth := 0
	for i := closing; i >= 0; i-- {
		switch runes[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				title = strings.TrimSpace(string(runes[:i]))
				author = strings.TrimSpace(string(runes[i+1 : closing]))
				if title == "" {
					return strings.TrimSpace(line), ""
				}
				return title, author
			}
		}
	}

	// Unbalanced parentheses: keep the whole line as the title.
	return strings.TrimSpace(line), ""
}

func parsePage(patterns []*regexp.Regexp, line string) *int {
	for _, p := range patterns {
		m := p.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}
		if page, err := strconv.Atoi(m[1]); err == nil {
			return &page
		}
	}
	return nil
}

func parseLocationRange(patterns []*regexp.Regexp, line string) Location {
	for _, p := range patterns {
		m := p.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		location := Location{Raw: m[1], Start: start}
		if len(m) >= 3 && m[2] != "" {
			if end, err := strconv.Atoi(m[2]); err == nil {
				location.End = &end
				location.Raw = m[1] + "-" + m[2]
			}
		}
		return location
	}
	return Location{}
}

// extractDateText returns the text after the "added on" keyword, or the
// last "|" separated segment when the keyword is missing.
func extractDateText(addedOn []*regexp.Regexp, line string) string {
	for _, p := range addedOn {
		if loc := p.FindStringIndex(line); loc != nil {
			return strings.TrimSpace(strings.TrimLeft(line[loc[1]:], ":： "))
		}
	}
	segments := strings.Split(line, "|")
	if len(segments) < 2 {
		return ""
	}
	return strings.TrimSpace(segments[len(segments)-1])
}

func nonEmptyLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if RuneLen(s) <= n {
		return s
	}
	return firstRunes(s, n) + "…"
}
