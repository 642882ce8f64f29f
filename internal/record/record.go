package record

import (
	"crypto/rand"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/oklog/ulid/v2"
)

// Field names consumed from backing-store items. The payload may carry more;
// these are the ones the adapter reads.
const (
	FieldID          = "id"
	FieldRecordID    = "record_id"
	FieldSubject     = "subject"
	FieldStatus      = "status"
	FieldRecipient   = "recipient"
	FieldTracking    = "tracking_number"
	FieldDescription = "description"
	FieldCreatedAt   = "created_at"
)

var json = jsoniter.ConfigFastest

// RawItem is the backing-store representation of one entity: opaque key/value
// fields owned by the backing store, read-only to this system.
type RawItem map[string]any

// Record is the normalized form of one RawItem, created once at fetch time
// and immutable thereafter. ID uniquely identifies the record within a
// snapshot; SortKey orders it; Payload carries the serialized raw item.
type Record struct {
	ID      string
	SortKey time.Time
	Payload []byte
}

// Values decodes the payload into a flat string map. Scalar values are
// stringified; null and composite values are skipped. Returns false when the
// payload is missing or cannot be parsed — callers treat such records as
// no-match (search, facets) or placeholder (display), never as a failure.
func (r Record) Values() (map[string]string, bool) {
	if len(r.Payload) == 0 {
		return nil, false
	}

	var raw map[string]any
	if err := json.Unmarshal(r.Payload, &raw); err != nil {
		return nil, false
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := stringify(v)
		if ok {
			values[k] = s
		}
	}
	return values, true
}

// Field returns the named payload field. The second result is false when the
// field is absent or the payload is malformed.
func (r Record) Field(name string) (string, bool) {
	values, ok := r.Values()
	if !ok {
		return "", false
	}
	v, ok := values[name]
	return v, ok
}

// stringify converts a decoded JSON scalar to its string form.
func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// NewID generates a new ULID for records the source did not key.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
