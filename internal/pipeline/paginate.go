package pipeline

import "github.com/SweetsNSavories/timeline/internal/record"

// Paginate slices one page out of the filtered, sorted sequence.
//
// The cursor is the id of the last record the host has seen; the window
// starts immediately after it. A cursor id absent from the current sequence
// (a filter may have removed it, or the sort direction flipped) restarts the
// window at position 0 — defined recovery, not an error. Anchoring on record
// identity instead of a numeric offset keeps pagination stable when the
// effective filtered set changes between calls.
func Paginate(records []record.Record, cursor string, pageSize int) Page {
	if pageSize < 0 {
		pageSize = 0
	}

	start := 0
	if cursor != "" {
		for i, r := range records {
			if r.ID == cursor {
				start = i + 1
				break
			}
		}
	}

	end := min(start+pageSize, len(records))

	return Page{
		Records:       records[start:end],
		MoreAvailable: len(records) > end,
	}
}
