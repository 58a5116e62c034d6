package processing

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/mrlokans/clippings/internal/kindle"
)

// ResolveOverlaps finds highlights of the same book whose location ranges
// overlap and where one text contains the other, which is what Kindle
// leaves behind when a highlight is extended. With merge set the longer
// highlight absorbs the shorter one; otherwise the shorter one is flagged
// overlapping. Records already flagged by an earlier stage are ignored.
func ResolveOverlaps(records []kindle.Record, merge bool) (out []kindle.Record, merged, flagged int) {
	work := cloneAll(records)
	dropped := make([]bool, len(work))

	for _, group := range highlightGroups(work, func(r kindle.Record) bool { return !r.IsSuspicious }) {
		for a := 0; a < len(group); a++ {
			i := group[a]
			if dropped[i] || work[i].IsSuspicious {
				continue
			}
			for b := a + 1; b < len(group); b++ {
				j := group[b]
				if work[j].Location.Start > work[i].Location.EndOrStart() {
					break
				}
				if dropped[j] || work[j].IsSuspicious {
					continue
				}

				long, short, ok := containment(work, i, j)
				if !ok {
					continue
				}

				if !merge {
					work[short].IsSuspicious = true
					work[short].SuspiciousReason = kindle.ReasonOverlapping
					work[short].PossibleDuplicateOf = work[long].ID
					flagged++
					if short == i {
						break
					}
					continue
				}

				absorb(&work[long], work[short])
				dropped[short] = true
				merged++
				if short == i {
					break
				}
			}
		}
	}

	out = make([]kindle.Record, 0, len(work))
	for i, r := range work {
		if !dropped[i] {
			out = append(out, r)
		}
	}
	return out, merged, flagged
}

// highlightGroups returns, per book, the indexes of located highlights
// accepted by keep, ordered by location start then block index.
func highlightGroups(records []kindle.Record, keep func(kindle.Record) bool) [][]int {
	byBook := make(map[string][]int)
	var keys []string
	for i, r := range records {
		if r.Type != kindle.TypeHighlight || !hasLocation(r) || !keep(r) {
			continue
		}
		key := r.BookKey()
		if _, ok := byBook[key]; !ok {
			keys = append(keys, key)
		}
		byBook[key] = append(byBook[key], i)
	}

	groups := make([][]int, 0, len(keys))
	for _, key := range keys {
		idx := byBook[key]
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := records[idx[a]], records[idx[b]]
			if ra.Location.Start != rb.Location.Start {
				return ra.Location.Start < rb.Location.Start
			}
			return ra.BlockIndex < rb.BlockIndex
		})
		groups = append(groups, idx)
	}
	return groups
}

// containment reports which of two records holds the other's text. An
// extended highlight usually replaces the trailing punctuation of the
// shorter one, so that is ignored along with case and spacing.
func containment(records []kindle.Record, i, j int) (long, short int, ok bool) {
	a := overlapText(records[i].Content)
	b := overlapText(records[j].Content)
	if a == "" || b == "" {
		return 0, 0, false
	}
	switch {
	case len(a) >= len(b) && strings.Contains(a, b):
		return i, j, true
	case strings.Contains(b, a):
		return j, i, true
	}
	return 0, 0, false
}

func overlapText(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

func absorb(dst *kindle.Record, src kindle.Record) {
	start := min(dst.Location.Start, src.Location.Start)
	end := max(dst.Location.EndOrStart(), src.Location.EndOrStart())
	dst.Location = rangeLocation(start, end)

	switch {
	case src.Note == "" || strings.Contains(dst.Note, src.Note):
	case dst.Note == "":
		dst.Note = src.Note
	default:
		dst.Note = dst.Note + noteSeparator + src.Note
	}
	if dst.LinkedNoteID == "" {
		dst.LinkedNoteID = src.LinkedNoteID
	}
	dst.Tags = mergeTags(dst.Tags, src.Tags)

	if src.Date != nil && (dst.Date == nil || src.Date.After(*dst.Date)) {
		dst.Date, dst.DateRaw = src.Date, src.DateRaw
	}
}

func rangeLocation(start, end int) kindle.Location {
	if end <= start {
		return kindle.Location{Raw: strconv.Itoa(start), Start: start}
	}
	return kindle.Location{
		Raw:   strconv.Itoa(start) + "-" + strconv.Itoa(end),
		Start: start,
		End:   &end,
	}
}
