package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameLength = 200

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	multipleSpaces       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a book title safe to use as an Obsidian note name.
// Characters that are invalid on common filesystems are removed, '#' is
// dropped and square brackets become parentheses since both have meaning
// in Obsidian links.
func SanitizeFilename(filename string) string {
	filename = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(filename)
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = strings.ReplaceAll(filename, "#", "")
	filename = strings.ReplaceAll(filename, "[", "(")
	filename = strings.ReplaceAll(filename, "]", ")")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.Trim(filename, " .")

	filename = truncateRunes(filename, maxFilenameLength)

	if filename == "" {
		filename = "Untitled"
	}
	return filename
}

// BookFileName is the note name of a book: "Title - Author", or just the
// title when the author is unknown.
func BookFileName(title, author string) string {
	author = strings.TrimSpace(author)
	if author == "" || strings.EqualFold(author, "unknown") {
		return SanitizeFilename(title)
	}
	return SanitizeFilename(title + " - " + author)
}

// truncateRunes cuts s to at most n bytes without splitting a character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
