package kindle

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var leadingWeekday = regexp.MustCompile(`^[\p{L}-]+,?\s+`)

// ParseDate converts the localized date text of a metadata line. The
// language's formats are tried in order, most specific first; if none
// fits, a generic parse of the raw string is attempted. A nil result
// means the date is unknown, which is not an error.
func ParseDate(raw string, lang Language) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	p := PatternsFor(lang)
	for _, f := range p.DateFormats {
		if t, ok := p.matchDate(f, s); ok {
			return &t
		}
	}

	return parseGenericDate(s)
}

func (p *LanguagePatterns) matchDate(f DateFormat, s string) (time.Time, bool) {
	m := f.Pattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	fields := make(map[string]string, len(m))
	for i, name := range f.Pattern.SubexpNames() {
		if name != "" {
			fields[name] = m[i]
		}
	}

	year, err := strconv.Atoi(fields["year"])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(fields["day"])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := p.monthNumber(fields["month"])
	if !ok {
		return time.Time{}, false
	}

	hour, minute, second := 0, 0, 0
	if fields["hour"] != "" {
		hour, _ = strconv.Atoi(fields["hour"])
		minute, _ = strconv.Atoi(fields["minute"])
		if fields["second"] != "" {
			second, _ = strconv.Atoi(fields["second"])
		}
		switch p.meridiem(fields["ampm"]) {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day {
		// Rolled over, e.g. 31 April.
		return time.Time{}, false
	}
	return t, true
}

func (p *LanguagePatterns) monthNumber(name string) (int, bool) {
	name = strings.TrimSuffix(lowerTrim(name), ".")
	if name == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n, true
	}
	if n, ok := p.Months[name]; ok {
		return n, true
	}

	// Abbreviations such as "Jan" or "janv".
	if RuneLen(name) < 3 {
		return 0, false
	}
	found := 0
	for full, n := range p.Months {
		if strings.HasPrefix(full, name) {
			if found != 0 && found != n {
				return 0, false
			}
			found = n
		}
	}
	return found, found != 0
}

func (p *LanguagePatterns) meridiem(marker string) string {
	marker = strings.NewReplacer(".", "", " ", "").Replace(lowerTrim(marker))
	if marker == "" {
		return ""
	}
	for _, am := range p.AM {
		if strings.NewReplacer(".", "", " ", "").Replace(am) == marker {
			return "am"
		}
	}
	for _, pm := range p.PM {
		if strings.NewReplacer(".", "", " ", "").Replace(pm) == marker {
			return "pm"
		}
	}
	switch marker {
	case "am":
		return "am"
	case "pm":
		return "pm"
	}
	return ""
}

func parseGenericDate(s string) (result *time.Time) {
	// dateparse has panicked on hostile input in the past.
	defer func() {
		if recover() != nil {
			result = nil
		}
	}()

	candidates := []string{s}
	if stripped := leadingWeekday.ReplaceAllString(s, ""); stripped != s {
		candidates = append(candidates, stripped)
	}
	for _, c := range candidates {
		if t, err := dateparse.ParseIn(c, time.UTC); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
