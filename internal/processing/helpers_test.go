package processing

import (
	"strconv"

	"github.com/mrlokans/clippings/internal/kindle"
)

type recordOption func(*kindle.Record)

func withLocation(start, end int) recordOption {
	return func(r *kindle.Record) {
		r.Location = rangeLocation(start, end)
	}
}

func withBook(title, author string) recordOption {
	return func(r *kindle.Record) {
		r.Title, r.Author = title, author
	}
}

func withTags(tags ...string) recordOption {
	return func(r *kindle.Record) {
		r.Tags = tags
	}
}

func newRecord(block int, t kindle.RecordType, content string, opts ...recordOption) kindle.Record {
	r := kindle.Record{
		Title:      "Test Book",
		Author:     "Test Author",
		Type:       t,
		Content:    content,
		Location:   rangeLocation(block*100, block*100),
		BlockIndex: block,
		WordCount:  kindle.CountWords(content),
		CharCount:  kindle.RuneLen(content),
		Source:     kindle.SourceKindle,
	}
	for _, opt := range opts {
		opt(&r)
	}
	r.ID = kindle.GenerateClippingID(r.Title, r.Location.Raw, r.Type, r.Content) + strconv.Itoa(block)
	return r
}
