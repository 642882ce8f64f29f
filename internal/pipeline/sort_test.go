package pipeline

import (
	"testing"
	"time"

	"github.com/SweetsNSavories/timeline/internal/record"
)

func TestSort_Ascending(t *testing.T) {
	records := shipmentScenario(t) // A=day1, B=day3, C=day2
	Sort(records, true)
	assertIDs(t, records, "A", "C", "B")
}

func TestSort_Descending(t *testing.T) {
	records := shipmentScenario(t)
	Sort(records, false)
	assertIDs(t, records, "B", "C", "A")
}

func TestSort_Deterministic(t *testing.T) {
	first := shipmentScenario(t)
	second := shipmentScenario(t)

	Sort(first, true)
	Sort(second, true)

	assertIDs(t, second, ids(first)...)

	// Sorting already-sorted input is a no-op
	Sort(first, true)
	assertIDs(t, first, ids(second)...)
}

func TestSort_ZeroSortKeyTies(t *testing.T) {
	// Records without a usable sort key tie with every partner and keep
	// their relative order with each other.
	records := []record.Record{
		testRecord(t, "x", time.Time{}, map[string]string{record.FieldSubject: "x"}),
		testRecord(t, "b", day3, nil),
		testRecord(t, "y", time.Time{}, map[string]string{record.FieldSubject: "y"}),
		testRecord(t, "a", day1, nil),
	}

	Sort(records, true)

	gotIDs := ids(records)
	xPos, yPos := -1, -1
	for i, id := range gotIDs {
		if id == "x" {
			xPos = i
		}
		if id == "y" {
			yPos = i
		}
	}
	if xPos == -1 || yPos == -1 {
		t.Fatalf("records lost during sort: %v", gotIDs)
	}
	if xPos > yPos {
		t.Errorf("zero-key records changed relative order: %v", gotIDs)
	}
}

func TestSort_AllZeroKeysPreservesOrder(t *testing.T) {
	records := []record.Record{
		testRecord(t, "1", time.Time{}, nil),
		testRecord(t, "2", time.Time{}, nil),
		testRecord(t, "3", time.Time{}, nil),
	}

	Sort(records, false)
	assertIDs(t, records, "1", "2", "3")
}
