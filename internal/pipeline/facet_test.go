package pipeline

import (
	"testing"

	"github.com/SweetsNSavories/timeline/internal/record"
)

func statusGroup(selected ...string) FacetGroup {
	sel := make(map[string]bool, len(selected))
	for _, s := range selected {
		sel[s] = true
	}
	return FacetGroup{
		Name:  "Status",
		Field: record.FieldStatus,
		Options: []FacetOption{
			{Value: "Pending", Selected: sel["Pending"]},
			{Value: "Shipped", Selected: sel["Shipped"]},
			{Value: "Delivered", Selected: sel["Delivered"]},
		},
	}
}

func TestFacetFilter_EmptySelectionIsIdentity(t *testing.T) {
	records := shipmentScenario(t)

	got := FacetFilter(records, []FacetGroup{statusGroup()})
	assertIDs(t, got, "A", "B", "C")

	got = FacetFilter(records, nil)
	assertIDs(t, got, "A", "B", "C")
}

func TestFacetFilter_SingleValue(t *testing.T) {
	records := shipmentScenario(t)

	got := FacetFilter(records, []FacetGroup{statusGroup("Shipped")})
	assertIDs(t, got, "A", "C")

	got = FacetFilter(records, []FacetGroup{statusGroup("Delivered")})
	assertIDs(t, got, "B")
}

func TestFacetFilter_MultipleValuesUnion(t *testing.T) {
	records := shipmentScenario(t)

	got := FacetFilter(records, []FacetGroup{statusGroup("Shipped", "Delivered")})
	assertIDs(t, got, "A", "B", "C")
}

func TestFacetFilter_SelectionIsGlobalAcrossGroups(t *testing.T) {
	// Selection is flattened across groups: a value selected in one group
	// retains records matched through another group's field.
	records := []record.Record{
		testRecord(t, "1", day1, map[string]string{
			record.FieldStatus:    "Shipped",
			record.FieldRecipient: "Avery Chen",
		}),
		testRecord(t, "2", day2, map[string]string{
			record.FieldStatus:    "Delivered",
			record.FieldRecipient: "Jordan Blake",
		}),
	}

	groups := []FacetGroup{
		{
			Name:    "Status",
			Field:   record.FieldStatus,
			Options: []FacetOption{{Value: "Shipped"}, {Value: "Delivered"}},
		},
		{
			Name:    "Recipient",
			Field:   record.FieldRecipient,
			Options: []FacetOption{{Value: "Jordan Blake", Selected: true}},
		},
	}

	got := FacetFilter(records, groups)
	assertIDs(t, got, "2")
}

func TestFacetFilter_MalformedPayloadNeverMatches(t *testing.T) {
	records := []record.Record{
		malformedRecord("bad", day1),
		testRecord(t, "ok", day2, map[string]string{record.FieldStatus: "Shipped"}),
	}

	got := FacetFilter(records, []FacetGroup{statusGroup("Shipped")})
	assertIDs(t, got, "ok")
}
