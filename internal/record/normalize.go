package record

import (
	"strconv"
	"time"
)

// timestampLayouts are the source formats accepted for created_at values.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts raw backing-store items into records. It runs once per
// fetch; records are immutable afterwards.
//
// The record id is taken from the item's primary key; items without one (and
// duplicates, which would break id-anchored pagination) get a generated ULID
// so every id maps to exactly one record within the snapshot. The sort key
// falls back to the fetch-time now when the source timestamp is missing or
// unparseable. Items whose payload cannot be serialized keep a nil payload
// and degrade to no-match behavior downstream.
func Normalize(items []RawItem, now time.Time) []Record {
	records := make([]Record, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		id := primaryKey(item)
		if id == "" || seen[id] {
			generated, err := NewID()
			if err != nil {
				// crypto/rand failure; nothing sensible to anchor on
				continue
			}
			id = generated
		}
		seen[id] = true

		payload, err := json.Marshal(item)
		if err != nil {
			payload = nil
		}

		records = append(records, Record{
			ID:      id,
			SortKey: sortKey(item, now),
			Payload: payload,
		})
	}

	return records
}

// primaryKey extracts the item's primary key as a string, or "".
func primaryKey(item RawItem) string {
	v, ok := item[FieldID]
	if !ok {
		return ""
	}
	s, ok := stringify(v)
	if !ok {
		return ""
	}
	return s
}

// sortKey parses the item's created timestamp, falling back to now.
func sortKey(item RawItem, now time.Time) time.Time {
	v, ok := item[FieldCreatedAt]
	if !ok {
		return now
	}

	switch val := v.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t
			}
		}
		// Unix seconds as a string (some exports do this)
		if secs, err := strconv.ParseInt(val, 10, 64); err == nil {
			return time.Unix(secs, 0).UTC()
		}
	case float64:
		return time.Unix(int64(val), 0).UTC()
	case int64:
		return time.Unix(val, 0).UTC()
	case time.Time:
		return val
	}

	return now
}
