package pipeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SweetsNSavories/timeline/internal/record"
)

var (
	day1 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	day3 = time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
)

// testRecord builds a record with the given payload fields.
func testRecord(t *testing.T, id string, sortKey time.Time, fields map[string]string) record.Record {
	t.Helper()

	m := make(map[string]any, len(fields))
	for k, v := range fields {
		m[k] = v
	}
	payload, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	return record.Record{ID: id, SortKey: sortKey, Payload: payload}
}

// malformedRecord builds a record whose payload cannot be parsed.
func malformedRecord(id string, sortKey time.Time) record.Record {
	return record.Record{ID: id, SortKey: sortKey, Payload: []byte("{not json")}
}

// shipmentScenario is the three-record set used across pipeline tests:
// A(status=Shipped, day1), B(status=Delivered, day3), C(status=Shipped, day2).
func shipmentScenario(t *testing.T) []record.Record {
	t.Helper()
	return []record.Record{
		testRecord(t, "A", day1, map[string]string{
			record.FieldSubject: "Shipment A", record.FieldStatus: "Shipped",
		}),
		testRecord(t, "B", day3, map[string]string{
			record.FieldSubject: "Shipment B", record.FieldStatus: "Delivered",
		}),
		testRecord(t, "C", day2, map[string]string{
			record.FieldSubject: "Shipment C", record.FieldStatus: "Shipped",
		}),
	}
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func assertIDs(t *testing.T, got []record.Record, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("ids = %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("ids = %v, want %v", gotIDs, want)
		}
	}
}

var searchFields = []string{
	record.FieldSubject, record.FieldStatus, record.FieldRecipient, record.FieldTracking,
}

func TestQuery_Scenario(t *testing.T) {
	records := shipmentScenario(t)

	// Unfiltered, ascending, no cursor → [A, C, B], no more records
	page := Query(records, PageRequest{PageSize: 10, Ascending: true}, FilterSpec{}, searchFields)
	assertIDs(t, page.Records, "A", "C", "B")
	if page.MoreAvailable {
		t.Error("MoreAvailable = true, want false")
	}

	// Facet Shipped selected → [A, C]
	spec := FilterSpec{Facets: []FacetGroup{{
		Name:  "Status",
		Field: record.FieldStatus,
		Options: []FacetOption{
			{Value: "Shipped", Selected: true},
			{Value: "Delivered"},
		},
	}}}
	page = Query(records, PageRequest{PageSize: 10, Ascending: true}, spec, searchFields)
	assertIDs(t, page.Records, "A", "C")

	// Cursor A, ascending, no facet → starts after A → [C, B]
	page = Query(records, PageRequest{PageSize: 10, Ascending: true, Cursor: "A"}, FilterSpec{}, searchFields)
	assertIDs(t, page.Records, "C", "B")
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	records := shipmentScenario(t)
	before := ids(records)

	Query(records, PageRequest{PageSize: 1, Ascending: false, Cursor: "C"},
		FilterSpec{Keyword: "shipment"}, searchFields)

	after := ids(records)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input order changed: %v → %v", before, after)
		}
	}
	if len(records) != 3 {
		t.Fatalf("input length changed: %d", len(records))
	}
}

func TestQuery_FilterThenCursor(t *testing.T) {
	// Filters apply before pagination: with only Shipped records visible,
	// cursor A yields C alone even though B sits between them by date.
	records := shipmentScenario(t)

	spec := FilterSpec{Facets: []FacetGroup{{
		Name:    "Status",
		Field:   record.FieldStatus,
		Options: []FacetOption{{Value: "Shipped", Selected: true}},
	}}}

	page := Query(records, PageRequest{PageSize: 10, Ascending: true, Cursor: "A"}, spec, searchFields)
	assertIDs(t, page.Records, "C")
	if page.MoreAvailable {
		t.Error("MoreAvailable = true, want false")
	}
}

func TestQuery_CursorRemovedByFilter(t *testing.T) {
	// The cursor record no longer matches the filter → restart at the top.
	records := shipmentScenario(t)

	spec := FilterSpec{Facets: []FacetGroup{{
		Name:    "Status",
		Field:   record.FieldStatus,
		Options: []FacetOption{{Value: "Shipped", Selected: true}},
	}}}

	withCursor := Query(records, PageRequest{PageSize: 10, Ascending: true, Cursor: "B"}, spec, searchFields)
	noCursor := Query(records, PageRequest{PageSize: 10, Ascending: true}, spec, searchFields)

	assertIDs(t, withCursor.Records, ids(noCursor.Records)...)
}
