package processing

import (
	"strings"

	"github.com/mrlokans/clippings/internal/kindle"
)

// linkWindow is how many locations a note may sit outside a highlight's
// range and still be attached to it.
const linkWindow = 3

const noteSeparator = "\n\n"

// LinkNotes attaches every note to the nearest highlight of the same book
// whose range contains the note's location or lies within linkWindow of
// it. Highlights get the note text and the id of their first note; notes
// get the id of their highlight. It returns the number of linked notes.
func LinkNotes(records []kindle.Record) ([]kindle.Record, int) {
	out := cloneAll(records)

	highlightsByBook := make(map[string][]int)
	for i, r := range out {
		if r.Type == kindle.TypeHighlight && hasLocation(r) {
			highlightsByBook[r.BookKey()] = append(highlightsByBook[r.BookKey()], i)
		}
	}

	linked := 0
	for i := range out {
		note := &out[i]
		if note.Type != kindle.TypeNote || note.Content == "" || !hasLocation(*note) {
			continue
		}

		best := -1
		bestDistance := 0
		for _, h := range highlightsByBook[note.BookKey()] {
			d, ok := locationDistance(out[h].Location, note.Location.Start)
			if !ok {
				continue
			}
			if best == -1 || d < bestDistance ||
				(d == bestDistance && blockGap(out[h], *note) < blockGap(out[best], *note)) {
				best, bestDistance = h, d
			}
		}
		if best == -1 {
			continue
		}

		highlight := &out[best]
		if highlight.Note == "" {
			highlight.Note = note.Content
		} else {
			highlight.Note = highlight.Note + noteSeparator + note.Content
		}
		if highlight.LinkedNoteID == "" {
			highlight.LinkedNoteID = note.ID
		}
		note.LinkedHighlightID = highlight.ID
		linked++
	}

	return out, linked
}

// RemoveLinkedNotes drops notes whose text now lives on a highlight. With
// dropUnlinked every other note is dropped as well.
func RemoveLinkedNotes(records []kindle.Record, dropUnlinked bool) ([]kindle.Record, int) {
	out := make([]kindle.Record, 0, len(records))
	removed := 0
	for _, r := range records {
		if r.Type == kindle.TypeNote && (r.LinkedHighlightID != "" || dropUnlinked) {
			removed++
			continue
		}
		out = append(out, r.Clone())
	}
	return out, removed
}

// locationDistance is 0 inside the range, otherwise the gap to the
// nearest bound. ok is false beyond linkWindow.
func locationDistance(highlight kindle.Location, at int) (int, bool) {
	start, end := highlight.Start, highlight.EndOrStart()
	var d int
	switch {
	case at < start:
		d = start - at
	case at > end:
		d = at - end
	}
	return d, d <= linkWindow
}

func blockGap(a, b kindle.Record) int {
	if a.BlockIndex > b.BlockIndex {
		return a.BlockIndex - b.BlockIndex
	}
	return b.BlockIndex - a.BlockIndex
}

func hasLocation(r kindle.Record) bool {
	return strings.TrimSpace(r.Location.Raw) != ""
}

func cloneAll(records []kindle.Record) []kindle.Record {
	out := make([]kindle.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
