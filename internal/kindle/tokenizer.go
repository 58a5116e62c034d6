package kindle

import (
	"regexp"
	"strings"
)

const byteOrderMark = "\uFEFF"

// A separator is a line made of ten or more '=' characters.
var separatorPattern = regexp.MustCompile(`(?m)^[ \t]*={10,}[ \t]*$`)

// Tokenize splits the clippings text into raw blocks. Fragments that are
// empty or hold fewer than two non-empty lines are dropped silently; the
// surviving blocks keep the index they had in the split.
func Tokenize(text string) []RawBlock {
	text = strings.TrimPrefix(text, byteOrderMark)
	text = normalizeLineEndings(text)

	fragments := separatorPattern.Split(text, -1)
	blocks := make([]RawBlock, 0, len(fragments))

	for i, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		lines := strings.Split(fragment, "\n")
		if countNonEmpty(lines) < 2 {
			continue
		}

		blocks = append(blocks, RawBlock{
			Index:   i,
			RawText: fragment,
			Lines:   lines,
		})
	}

	return blocks
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func countNonEmpty(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
