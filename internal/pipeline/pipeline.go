// Package pipeline implements the in-memory query pipeline: search, facet
// filter, stable sort, and cursor-based pagination over a cached snapshot.
// All stages are pure local computation; the remote fetch happens elsewhere,
// exactly once per session.
package pipeline

import (
	"slices"

	"github.com/SweetsNSavories/timeline/internal/record"
)

// FacetOption is one selectable value within a facet group.
type FacetOption struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// FacetGroup describes one facet dropdown: a display name, the payload field
// it filters on, and its options.
type FacetGroup struct {
	Name    string        `json:"name"`
	Field   string        `json:"field"`
	Options []FacetOption `json:"options"`
}

// FilterSpec is the per-request filter state supplied by the host: a
// free-text keyword and the facet groups with their current selections.
type FilterSpec struct {
	Keyword string       `json:"keyword"`
	Facets  []FacetGroup `json:"facets"`
}

// PageRequest describes one page of results to produce.
type PageRequest struct {
	PageSize  int    `json:"page_size"`
	Ascending bool   `json:"ascending"`
	Cursor    string `json:"cursor,omitempty"`     // id of the last-seen record
	RequestID string `json:"request_id,omitempty"` // opaque echo token
}

// Page is the pipeline output: the selected records in order, and whether
// more records remain past the returned slice.
type Page struct {
	Records       []record.Record
	MoreAvailable bool
}

// Query runs the four stages in their fixed order over a working copy of the
// snapshot sequence. The order is load-bearing: both filters must apply
// before sort and pagination, or cursor semantics break. The input slice is
// never mutated.
func Query(records []record.Record, req PageRequest, spec FilterSpec, searchFields []string) Page {
	work := slices.Clone(records)

	work = Search(work, spec.Keyword, searchFields)
	work = FacetFilter(work, spec.Facets)
	Sort(work, req.Ascending)

	return Paginate(work, req.Cursor, req.PageSize)
}
