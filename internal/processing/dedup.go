package processing

import (
	"sort"

	"github.com/mrlokans/clippings/internal/kindle"
)

// ResolveDuplicates groups records by their duplicate hash. The last
// record of every group is the survivor, on the assumption that a later
// clipping of the same passage is the user's correction. In remove mode
// the other members are dropped and their tags move to the survivor; in
// flag mode they stay and point at the survivor. The second return value
// is the number of records removed or flagged.
func ResolveDuplicates(records []kindle.Record, remove bool) ([]kindle.Record, int) {
	groups := make(map[string][]int, len(records))
	order := make([]string, 0, len(records))

	for i, r := range records {
		key := kindle.GenerateDuplicateHash(r.Title, r.Location.Raw, r.Content)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	out := make([]kindle.Record, 0, len(records))
	affected := 0

	for _, key := range order {
		members := groups[key]
		survivor := records[members[len(members)-1]].Clone()
		duplicates := members[:len(members)-1]

		if remove {
			for _, idx := range duplicates {
				survivor.Tags = mergeTags(survivor.Tags, records[idx].Tags)
				affected++
			}
			out = append(out, survivor)
			continue
		}

		for _, idx := range duplicates {
			dup := records[idx].Clone()
			dup.IsSuspicious = true
			dup.SuspiciousReason = kindle.ReasonExactDuplicate
			dup.PossibleDuplicateOf = survivor.ID
			out = append(out, dup)
			affected++
		}
		out = append(out, survivor)
	}

	sortByBlockIndex(out)
	return out, affected
}

func sortByBlockIndex(records []kindle.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].BlockIndex < records[j].BlockIndex
	})
}
