package processing

import (
	"unicode"

	"github.com/mrlokans/clippings/internal/kindle"
)

// fuzzyWindow bounds how far apart, in locations, two highlights may be
// to be compared at all.
const fuzzyWindow = 20

// FlagFuzzyDuplicates compares highlights of the same book that sit
// within fuzzyWindow locations of each other. When the Jaccard similarity
// of their word sets is at least threshold but below 1 the later one gets
// a similarity score and a pointer to the earlier. A record flagged this
// way is never used as the source of another comparison.
func FlagFuzzyDuplicates(records []kindle.Record, threshold float64) ([]kindle.Record, int) {
	out := cloneAll(records)
	flagged := 0

	all := func(kindle.Record) bool { return true }
	for _, group := range highlightGroups(out, all) {
		words := make(map[int]map[string]struct{}, len(group))
		wordsOf := func(i int) map[string]struct{} {
			if w, ok := words[i]; ok {
				return w
			}
			w := wordSet(out[i].Content)
			words[i] = w
			return w
		}

		for a := 0; a < len(group); a++ {
			src := group[a]
			if out[src].PossibleDuplicateOf != "" {
				continue
			}
			for b := a + 1; b < len(group); b++ {
				cand := group[b]
				if out[cand].Location.Start-out[src].Location.EndOrStart() > fuzzyWindow {
					break
				}
				if out[cand].PossibleDuplicateOf != "" {
					continue
				}

				score := Jaccard(wordsOf(src), wordsOf(cand))
				if score < threshold || score >= 1.0 {
					continue
				}
				out[cand].SimilarityScore = &score
				out[cand].PossibleDuplicateOf = out[src].ID
				flagged++
			}
		}
	}

	return out, flagged
}

// Jaccard is |a ∩ b| / |a ∪ b|; two empty sets score 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

// wordSet lowercases text and splits it into words. Each ideographic or
// kana character is a word of its own.
func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) > 0 {
			set[string(word)] = struct{}{}
			word = word[:0]
		}
	}

	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana):
			flush()
			set[string(r)] = struct{}{}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			word = append(word, unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()
	return set
}
