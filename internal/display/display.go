// Package display is the presentation mapper: it converts internal records
// into the host's renderable shape.
package display

import (
	"bytes"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"github.com/SweetsNSavories/timeline/internal/record"
)

// placeholderTitle is shown for records whose payload cannot be parsed.
// One bad record must never blank the whole page.
const placeholderTitle = "(record unavailable)"

// Record is the host-facing display shape of one timeline entry.
type Record struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	Recipient      string `json:"recipient"`
	TrackingNumber string `json:"tracking_number"`
	CreatedAt      string `json:"created_at"`
	BodyHTML       string `json:"body_html,omitempty"`
}

// ToDisplay maps one internal record to its display shape. It is pure and
// has no failure path: a malformed payload renders with placeholder text.
func ToDisplay(r record.Record) Record {
	out := Record{
		ID:        r.ID,
		CreatedAt: formatTime(r.SortKey),
	}

	values, ok := r.Values()
	if !ok {
		out.Title = placeholderTitle
		return out
	}

	out.Title = values[record.FieldSubject]
	if out.Title == "" {
		out.Title = placeholderTitle
	}
	out.Status = values[record.FieldStatus]
	out.Recipient = values[record.FieldRecipient]
	out.TrackingNumber = values[record.FieldTracking]
	out.BodyHTML = renderMarkdown(values[record.FieldDescription])

	return out
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) string {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTMLEscapeString(md)
	}
	return buf.String()
}

// formatTime formats a sort key as "2006-01-02 15:04" UTC, or "" when zero.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
