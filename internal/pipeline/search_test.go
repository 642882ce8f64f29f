package pipeline

import (
	"testing"

	"github.com/SweetsNSavories/timeline/internal/record"
)

func TestSearch_EmptyKeywordIsIdentity(t *testing.T) {
	records := shipmentScenario(t)

	for _, keyword := range []string{"", "   ", "\t\n"} {
		got := Search(records, keyword, searchFields)
		assertIDs(t, got, "A", "B", "C")
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	records := []record.Record{
		testRecord(t, "1", day1, map[string]string{
			record.FieldSubject:   "Replacement parts",
			record.FieldRecipient: "Avery Chen",
		}),
		testRecord(t, "2", day2, map[string]string{
			record.FieldSubject:   "Warranty claim",
			record.FieldRecipient: "Jordan Blake",
		}),
	}

	tests := []struct {
		keyword string
		want    []string
	}{
		{"REPLACEMENT", []string{"1"}},
		{"avery", []string{"1"}},
		{"jordan", []string{"2"}},
		{"a", []string{"1", "2"}}, // substring, order preserved
		{"no such thing", nil},
	}

	for _, tt := range tests {
		got := Search(records, tt.keyword, searchFields)
		assertIDs(t, got, tt.want...)
	}
}

func TestSearch_MatchesOnlySearchableFields(t *testing.T) {
	records := []record.Record{
		testRecord(t, "1", day1, map[string]string{
			record.FieldSubject:     "Fragile goods",
			record.FieldDescription: "contains porcelain",
		}),
	}

	// description is not in the searchable field list
	got := Search(records, "porcelain", searchFields)
	if len(got) != 0 {
		t.Errorf("keyword matched a non-searchable field, got %v", ids(got))
	}
}

func TestSearch_MalformedPayloadNeverMatches(t *testing.T) {
	records := []record.Record{
		malformedRecord("bad", day1),
		testRecord(t, "ok", day2, map[string]string{record.FieldSubject: "anything"}),
	}

	got := Search(records, "anything", searchFields)
	assertIDs(t, got, "ok")
}
