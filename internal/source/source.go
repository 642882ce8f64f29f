// Package source is the remote fetch gateway: it executes exactly one query
// against the backing store per adapter session and hands back raw items.
// Production hardening (timeouts, retries) belongs here, not in the pipeline.
package source

import (
	"context"

	"github.com/SweetsNSavories/timeline/internal/record"
)

// PredicateOp is the comparison applied by a query predicate.
type PredicateOp string

const (
	OpEquals   PredicateOp = "eq"
	OpContains PredicateOp = "contains"
)

// Predicate restricts a query to items whose field matches the value.
type Predicate struct {
	Field string
	Op    PredicateOp
	Value string
}

// Query describes one backing-store read: the entity (collection) name, the
// field-selection list, and an optional predicate.
type Query struct {
	Entity    string
	Fields    []string
	Predicate *Predicate
}

// Gateway executes a query against the backing store. A failed fetch returns
// a TRANSPORT_FAILED error; callers degrade to an empty item list rather
// than surfacing a broken backing connection to the UI.
type Gateway interface {
	Fetch(ctx context.Context, q Query) ([]record.RawItem, error)
}

// Logger receives operational messages from gateway implementations.
// log/slog's *Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
