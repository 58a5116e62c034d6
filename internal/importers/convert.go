package importers

import (
	"log"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/kindle"
)

// ToBooks groups processed records into books ready for export. Records
// flagged as exact duplicates are left out, as are records whose id was
// already seen, so every stored highlight has a distinct clipping id.
func ToBooks(records []kindle.Record) []entities.Book {
	var order []string
	bookMap := make(map[string]*entities.Book)
	seen := make(map[string]bool, len(records))

	for _, r := range records {
		if r.SuspiciousReason == kindle.ReasonExactDuplicate {
			continue
		}
		if seen[r.ID] {
			log.Printf("Skipping clipping %s of '%s' (block %d): id already used by an earlier clipping", r.ID, r.Title, r.BlockIndex)
			continue
		}
		seen[r.ID] = true

		key := r.BookKey()
		book, exists := bookMap[key]
		if !exists {
			book = &entities.Book{
				Title:      r.Title,
				Author:     r.Author,
				TitleRaw:   r.TitleRaw,
				Sideloaded: r.Source == kindle.SourceSideload,
				Source:     entities.Source{Name: string(r.Source)},
			}
			bookMap[key] = book
			order = append(order, key)
		}

		book.Highlights = append(book.Highlights, toHighlight(r))
	}

	books := make([]entities.Book, 0, len(order))
	for _, key := range order {
		books = append(books, *bookMap[key])
	}
	return books
}

func toHighlight(r kindle.Record) entities.Highlight {
	h := entities.Highlight{
		ClippingID:          r.ID,
		Kind:                string(r.Type),
		Text:                r.Content,
		Note:                r.Note,
		LocationType:        entities.LocationTypeNone,
		DateRaw:             r.DateRaw,
		Language:            r.Language.String(),
		WordCount:           r.WordCount,
		BlockIndex:          r.BlockIndex,
		IsSuspicious:        r.IsSuspicious,
		SuspiciousReason:    string(r.SuspiciousReason),
		PossibleDuplicateOf: r.PossibleDuplicateOf,
	}

	switch {
	case r.Location.Raw != "":
		h.LocationType = entities.LocationTypeLocation
		h.LocationValue = r.Location.Start
		h.LocationRaw = r.Location.Raw
		if r.Location.End != nil {
			h.LocationEnd = *r.Location.End
		}
	case r.Page != nil:
		h.LocationType = entities.LocationTypePage
		h.LocationValue = *r.Page
	}

	if r.Page != nil {
		h.Page = *r.Page
	}
	if r.Date != nil {
		h.HighlightedAt = *r.Date
	}
	if r.SimilarityScore != nil {
		h.SimilarityScore = *r.SimilarityScore
	}
	for _, name := range r.Tags {
		h.Tags = append(h.Tags, entities.Tag{Name: name})
	}

	return h
}
