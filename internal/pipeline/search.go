package pipeline

import (
	"strings"

	"github.com/SweetsNSavories/timeline/internal/record"
)

// Search retains records whose concatenated searchable field values contain
// the keyword as a case-insensitive substring. An empty or whitespace-only
// keyword is the identity. Records with a malformed payload never match.
// The result is an order-preserving subsequence of the input.
func Search(records []record.Record, keyword string, searchFields []string) []record.Record {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return records
	}

	matched := make([]record.Record, 0, len(records))
	for _, r := range records {
		if matchesKeyword(r, keyword, searchFields) {
			matched = append(matched, r)
		}
	}
	return matched
}

// matchesKeyword reports whether the record's searchable text contains the
// (already lowercased) keyword.
func matchesKeyword(r record.Record, keyword string, searchFields []string) bool {
	values, ok := r.Values()
	if !ok {
		return false
	}

	var b strings.Builder
	for _, field := range searchFields {
		if v, ok := values[field]; ok {
			b.WriteString(v)
			b.WriteByte(' ')
		}
	}

	return strings.Contains(strings.ToLower(b.String()), keyword)
}
