// Package processing turns parsed Kindle records into the final import
// result: duplicates resolved, notes attached to highlights, tags pulled
// out of notes, questionable highlights flagged and the user's filters
// applied. Every stage takes a slice and returns a new one; input records
// are never modified.
package processing

import "github.com/mrlokans/clippings/internal/kindle"

// Result is the output of Run.
type Result struct {
	Records  []kindle.Record
	Counters Counters
	Stats    Stats
}

// Run executes all stages in order.
func Run(records []kindle.Record, opts Options) Result {
	var c Counters
	out := records

	if opts.RemoveDuplicates {
		out, c.DuplicatesRemoved = ResolveDuplicates(out, true)
	} else {
		out, c.DuplicatesFlagged = ResolveDuplicates(out, false)
	}

	if opts.MergeNotes {
		out, c.LinkedNotes = LinkNotes(out)
		out, c.NotesRemoved = RemoveLinkedNotes(out, opts.HighlightsOnly)
	}

	if opts.ExtractTags {
		out = ExtractTags(out, opts.TagCase)
	}

	out, c.MergedHighlights, c.OverlapsFlagged = ResolveOverlaps(out, opts.MergeOverlapping)
	out, c.SuspiciousFlagged = FlagSuspicious(out)
	out, c.FuzzyFlagged = FlagFuzzyDuplicates(out, opts.fuzzyThreshold())
	out, c.Filtered = Filter(out, opts)

	sortByBlockIndex(out)

	return Result{
		Records:  out,
		Counters: c,
		Stats:    ComputeStats(out, c),
	}
}
