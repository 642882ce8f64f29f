package pipeline

import (
	"sort"

	"github.com/SweetsNSavories/timeline/internal/record"
)

// Sort stably orders records by sort key, ascending or descending. A record
// with a zero sort key ties with every comparison partner; tied records keep
// their relative order. A bad date value is never an error.
func Sort(records []record.Record, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].SortKey, records[j].SortKey
		if a.IsZero() || b.IsZero() {
			return false
		}
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
}
