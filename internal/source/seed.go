package source

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/SweetsNSavories/timeline/internal/record"
)

var seedStatuses = []string{"Pending", "Shipped", "In Transit", "Delivered"}

var seedRecipients = []string{
	"Avery Chen", "Jordan Blake", "Sam Okafor", "Riley Nakamura", "Casey Moore",
}

// Seed inserts demo shipments related to the given host record so the serve
// and query commands have data to work with.
func Seed(db *sqlx.DB, recordID string, count int) error {
	if recordID == "" {
		return fmt.Errorf("record id is required")
	}
	if count <= 0 {
		count = 25
	}

	base := time.Now().UTC().Add(-time.Duration(count) * 24 * time.Hour)

	for i := 0; i < count; i++ {
		id, err := record.NewID()
		if err != nil {
			return fmt.Errorf("failed to generate id: %w", err)
		}

		status := seedStatuses[i%len(seedStatuses)]
		recipient := seedRecipients[i%len(seedRecipients)]
		createdAt := base.Add(time.Duration(i) * 24 * time.Hour)

		sqlQuery, _, err := goqu.Dialect(dialectSQLite).
			Insert("shipments").
			Rows(goqu.Record{
				"id":              id,
				"record_id":       recordID,
				"subject":         fmt.Sprintf("Shipment #%04d", i+1),
				"status":          status,
				"recipient":       recipient,
				"tracking_number": fmt.Sprintf("1Z999AA1%08d", i+1),
				"description": fmt.Sprintf(
					"**%s** to %s.\n\nExpected within %d days.", status, recipient, (i%5)+1),
				"created_at": createdAt.Format(time.RFC3339),
			}).
			ToSQL()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}

		if _, err := db.Exec(sqlQuery); err != nil {
			return fmt.Errorf("failed to insert seed row: %w", err)
		}
	}

	return nil
}
