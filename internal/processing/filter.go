package processing

import (
	"strings"

	"github.com/mrlokans/clippings/internal/kindle"
)

// Filter applies the user's inclusion rules and returns what is left
// together with the number of dropped records. Book filters match a
// case-insensitive substring of the title.
func Filter(records []kindle.Record, opts Options) ([]kindle.Record, int) {
	excludedTypes := make(map[kindle.RecordType]struct{}, len(opts.ExcludeTypes))
	for _, t := range opts.ExcludeTypes {
		excludedTypes[t] = struct{}{}
	}
	exclude := lowerAll(opts.ExcludeBooks)
	only := lowerAll(opts.OnlyBooks)

	out := make([]kindle.Record, 0, len(records))
	for _, r := range records {
		if _, ok := excludedTypes[r.Type]; ok {
			continue
		}
		if opts.HighlightsOnly && r.Type != kindle.TypeHighlight {
			continue
		}

		title := strings.ToLower(r.Title)
		if containsAny(title, exclude) {
			continue
		}
		if len(only) > 0 && !containsAny(title, only) {
			continue
		}

		if opts.MinContentLength > 0 &&
			(r.Type == kindle.TypeHighlight || r.Type == kindle.TypeNote) &&
			kindle.RuneLen(r.Content) < opts.MinContentLength {
			continue
		}

		out = append(out, r.Clone())
	}
	return out, len(records) - len(out)
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
