package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/SweetsNSavories/timeline/internal/errors"
	"github.com/SweetsNSavories/timeline/internal/record"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

const dialectSQLite = "sqlite3"

// Init initializes the SQLite backing store at baseDir/timeline.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.timeline.
func Init(baseDir string) (*sqlx.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// Pragmas in the connection string apply to all pooled connections
	dbPath := filepath.Join(baseDir, "timeline.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sqlx.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS shipments (
		  id              TEXT PRIMARY KEY,
		  record_id       TEXT NOT NULL,
		  subject         TEXT NOT NULL,
		  status          TEXT NOT NULL,
		  recipient       TEXT,
		  tracking_number TEXT,
		  description     TEXT,
		  created_at      TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_shipments_record_created
		ON shipments(record_id, created_at);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

func getUserVersion(db *sqlx.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sqlx.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// SQLiteGateway executes backing-store queries against a local SQLite store.
type SQLiteGateway struct {
	db     *sqlx.DB
	logger Logger
}

// NewSQLiteGateway creates a gateway over an initialized store.
// The logger may be nil.
func NewSQLiteGateway(db *sqlx.DB, logger Logger) *SQLiteGateway {
	return &SQLiteGateway{db: db, logger: logger}
}

// Fetch runs one SELECT built from the query's entity, field list, and
// predicate, and returns the rows as raw items. Any build, execution, or
// scan failure comes back as a TRANSPORT_FAILED error.
func (g *SQLiteGateway) Fetch(ctx context.Context, q Query) ([]record.RawItem, error) {
	sqlQuery, err := buildSelectQuery(q)
	if err != nil {
		g.logError("failed to build select query", err)
		return nil, errors.NewTransportFailed(err)
	}

	start := time.Now()
	rows, err := g.db.QueryxContext(ctx, sqlQuery)
	if err != nil {
		g.logError("backing store query execution failed", err)
		return nil, errors.NewTransportFailed(err)
	}
	defer rows.Close()

	var items []record.RawItem
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			g.logError("failed to scan backing store row", err)
			return nil, errors.NewTransportFailed(err)
		}
		items = append(items, toRawItem(row))
	}
	if err := rows.Err(); err != nil {
		g.logError("backing store row iteration failed", err)
		return nil, errors.NewTransportFailed(err)
	}

	if g.logger != nil {
		g.logger.Debug("backing store query completed",
			"entity", q.Entity,
			"item_count", len(items),
			"duration_ms", time.Since(start).Milliseconds())
	}

	return items, nil
}

func (g *SQLiteGateway) logError(msg string, err error) {
	if g.logger != nil {
		g.logger.Error(msg, "error", err.Error())
	}
}

// buildSelectQuery renders the query as SQL via goqu.
func buildSelectQuery(q Query) (string, error) {
	cols := make([]any, len(q.Fields))
	for i, f := range q.Fields {
		cols[i] = f
	}

	stmt := goqu.Dialect(dialectSQLite).
		From(q.Entity).
		Select(cols...)

	if p := q.Predicate; p != nil {
		switch p.Op {
		case OpContains:
			stmt = stmt.Where(goqu.I(p.Field).Like("%" + p.Value + "%"))
		default:
			stmt = stmt.Where(goqu.I(p.Field).Eq(p.Value))
		}
	}

	sqlQuery, _, err := stmt.ToSQL()
	if err != nil {
		return "", err
	}
	return sqlQuery, nil
}

// toRawItem converts a scanned row to a raw item, normalizing byte slices to
// strings so the payload serializes as text.
func toRawItem(row map[string]any) record.RawItem {
	item := make(record.RawItem, len(row))
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			item[k] = string(b)
			continue
		}
		item[k] = v
	}
	return item
}
