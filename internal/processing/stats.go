package processing

import (
	"sort"
	"strings"
	"time"

	"github.com/mrlokans/clippings/internal/kindle"
)

// BookStats is the per-book breakdown of a run.
type BookStats struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Highlights int    `json:"highlights"`
	Notes      int    `json:"notes"`
	Bookmarks  int    `json:"bookmarks"`
	Other      int    `json:"other"`
	Words      int    `json:"words"`
}

// Stats aggregates the final record list and the stage counters.
type Stats struct {
	Total      int                       `json:"total"`
	ByType     map[kindle.RecordType]int `json:"byType"`
	TotalBooks int                       `json:"totalBooks"`
	Books      []BookStats               `json:"books"`

	Counters

	Suspicious   int        `json:"suspicious"`
	EarliestDate *time.Time `json:"earliestDate,omitempty"`
	LatestDate   *time.Time `json:"latestDate,omitempty"`

	TotalWords               int     `json:"totalWords"`
	AverageWordsPerHighlight float64 `json:"averageWordsPerHighlight"`
}

// ComputeStats summarizes records. Books are ordered by title, then author.
func ComputeStats(records []kindle.Record, counters Counters) Stats {
	stats := Stats{
		Total:    len(records),
		ByType:   make(map[kindle.RecordType]int, len(kindle.RecordTypes)),
		Counters: counters,
	}
	for _, t := range kindle.RecordTypes {
		stats.ByType[t] = 0
	}

	books := make(map[string]*BookStats)
	highlightWords := 0

	for _, r := range records {
		stats.ByType[r.Type]++
		stats.TotalWords += r.WordCount
		if r.IsSuspicious {
			stats.Suspicious++
		}

		book, ok := books[r.BookKey()]
		if !ok {
			book = &BookStats{Title: r.Title, Author: r.Author}
			books[r.BookKey()] = book
		}
		book.Words += r.WordCount

		switch r.Type {
		case kindle.TypeHighlight:
			book.Highlights++
			highlightWords += r.WordCount
		case kindle.TypeNote:
			book.Notes++
		case kindle.TypeBookmark:
			book.Bookmarks++
		default:
			book.Other++
		}

		if r.Date != nil {
			if stats.EarliestDate == nil || r.Date.Before(*stats.EarliestDate) {
				stats.EarliestDate = r.Date
			}
			if stats.LatestDate == nil || r.Date.After(*stats.LatestDate) {
				stats.LatestDate = r.Date
			}
		}
	}

	stats.Books = make([]BookStats, 0, len(books))
	for _, b := range books {
		stats.Books = append(stats.Books, *b)
	}
	sort.Slice(stats.Books, func(i, j int) bool {
		ti, tj := strings.ToLower(stats.Books[i].Title), strings.ToLower(stats.Books[j].Title)
		if ti != tj {
			return ti < tj
		}
		return strings.ToLower(stats.Books[i].Author) < strings.ToLower(stats.Books[j].Author)
	})
	stats.TotalBooks = len(stats.Books)

	if h := stats.ByType[kindle.TypeHighlight]; h > 0 {
		stats.AverageWordsPerHighlight = float64(highlightWords) / float64(h)
	}
	return stats
}
