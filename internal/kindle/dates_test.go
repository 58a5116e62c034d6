package kindle

import (
	"testing"
	"time"
)

func TestParseDate_Localized(t *testing.T) {
	tests := []struct {
		name     string
		lang     Language
		raw      string
		expected time.Time
	}{
		{"english us", English, "Friday, January 1, 2024 10:30:45 AM", time.Date(2024, 1, 1, 10, 30, 45, 0, time.UTC)},
		{"english uk", English, "Saturday, 26 March 2016 15:46:21", time.Date(2016, 3, 26, 15, 46, 21, 0, time.UTC)},
		{"english midnight", English, "January 1, 2024 12:15:00 AM", time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC)},
		{"english noon", English, "January 1, 2024 12:15:00 PM", time.Date(2024, 1, 1, 12, 15, 0, 0, time.UTC)},
		{"english abbreviated month", English, "Jan 5, 2024 9:00 PM", time.Date(2024, 1, 5, 21, 0, 0, 0, time.UTC)},
		{"english date only", English, "March 3, 2020", time.Date(2020, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"spanish", Spanish, "lunes, 2 de enero de 2023 9:21:50", time.Date(2023, 1, 2, 9, 21, 50, 0, time.UTC)},
		{"portuguese", Portuguese, "sábado, 2 de março de 2024 14:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
		{"german", German, "Freitag, 1. März 2024 18:05:10", time.Date(2024, 3, 1, 18, 5, 10, 0, time.UTC)},
		{"french", French, "samedi 2 mars 2024 14:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
		{"french first of month", French, "vendredi 1er mars 2024 08:00:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"italian", Italian, "sabato 2 marzo 2024 14:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
		{"chinese", Chinese, "2024年3月2日星期六 下午2:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
		{"japanese", Japanese, "2023年5月14日日曜日 11:31:52", time.Date(2023, 5, 14, 11, 31, 52, 0, time.UTC)},
		{"korean", Korean, "2024년 3월 2일 토요일 오후 2:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
		{"dutch", Dutch, "zaterdag 2 maart 2024 14:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
		{"russian", Russian, "суббота, 2 марта 2024 г. 14:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
		{"russian with preposition", Russian, "четверг, 1 ноября 2018 г. в 21:23:37", time.Date(2018, 11, 1, 21, 23, 37, 0, time.UTC)},
		{"generic fallback", English, "2024-03-02 14:05:10", time.Date(2024, 3, 2, 14, 5, 10, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw, tt.lang)
			if got == nil {
				t.Fatalf("expected %v, got nil", tt.expected)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, *got)
			}
			if got.Location() != time.UTC {
				t.Errorf("expected UTC, got %v", got.Location())
			}
		})
	}
}

func TestParseDate_Unknown(t *testing.T) {
	for _, raw := range []string{"", "   ", "whenever"} {
		if got := ParseDate(raw, English); got != nil {
			t.Errorf("expected nil for %q, got %v", raw, *got)
		}
	}
}

func TestParseDate_RejectsImpossibleTableDates(t *testing.T) {
	p := PatternsFor(English)
	if _, ok := p.matchDate(p.DateFormats[0], "Tuesday, February 30, 2024 10:00:00 AM"); ok {
		t.Errorf("expected February 30 to be rejected")
	}
	if _, ok := p.matchDate(p.DateFormats[0], "Tuesday, Smarch 3, 2024 10:00:00 AM"); ok {
		t.Errorf("expected unknown month to be rejected")
	}
}
