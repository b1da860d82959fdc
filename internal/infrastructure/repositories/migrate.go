package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"citizen-portal.backend/internal/domain/entities"
)

// uniqueColumns carry a partial unique index restricted to active statuses, so a rejected or
// completed record never blocks a fresh submission.
var uniqueColumns = []string{"email", "phone", "identifier"}

type columnTypes struct {
	id        string
	timestamp string
}

func dialectTypes(db *gorm.DB) columnTypes {
	if db.Dialector.Name() == "postgres" {
		return columnTypes{id: "UUID", timestamp: "TIMESTAMPTZ"}
	}
	return columnTypes{id: "TEXT", timestamp: "DATETIME"}
}

func activeStatusList() string {
	quoted := make([]string, 0, len(entities.ActiveStatuses))
	for _, s := range entities.ActiveStatuses {
		quoted = append(quoted, pq.QuoteLiteral(string(s)))
	}
	return strings.Join(quoted, ", ")
}

func applicationTableDDL(table string, t columnTypes) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id %s PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(20),
		identifier VARCHAR(64),
		status VARCHAR(20) NOT NULL,
		payment_verified BOOLEAN NOT NULL DEFAULT FALSE,
		payment_verified_at %s,
		fields TEXT NOT NULL,
		documents TEXT NOT NULL,
		application_date %s NOT NULL,
		updated_at %s
	)`, pq.QuoteIdentifier(table), t.id, t.timestamp, t.timestamp, t.timestamp)
}

func paymentSessionTableDDL(t columnTypes) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS payment_sessions (
		id %s PRIMARY KEY,
		checkout_session_id VARCHAR(255) NOT NULL UNIQUE,
		temp_id VARCHAR(64) NOT NULL UNIQUE,
		product VARCHAR(20) NOT NULL,
		kind VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL,
		amount_minor BIGINT NOT NULL,
		currency VARCHAR(8) NOT NULL,
		status VARCHAR(20) NOT NULL,
		form_data TEXT,
		paid_at %s,
		created_at %s,
		updated_at %s
	)`, t.id, t.timestamp, t.timestamp, t.timestamp)
}

// Migrate creates the application table of every kind together with its active-status unique
// indexes, and the payment_sessions table. Statements are idempotent.
func Migrate(ctx context.Context, db *gorm.DB, kinds []entities.Kind) error {
	t := dialectTypes(db)
	conn := db.WithContext(ctx)
	active := activeStatusList()

	for _, kind := range kinds {
		table := kind.TableName()
		if err := conn.Exec(applicationTableDDL(table, t)).Error; err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		for _, col := range uniqueColumns {
			stmt := fmt.Sprintf(
				"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE status IN (%s)",
				pq.QuoteIdentifier(table+"_"+col+"_active_key"),
				pq.QuoteIdentifier(table),
				pq.QuoteIdentifier(col),
				active,
			)
			if err := conn.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create %s index on %s: %w", col, table, err)
			}
		}
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (application_date)",
			pq.QuoteIdentifier(table+"_application_date_idx"), pq.QuoteIdentifier(table))
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create date index on %s: %w", table, err)
		}
	}

	if err := conn.Exec(paymentSessionTableDDL(t)).Error; err != nil {
		return fmt.Errorf("create table payment_sessions: %w", err)
	}
	if err := conn.Exec("CREATE INDEX IF NOT EXISTS payment_sessions_status_created_idx ON payment_sessions (status, created_at)").Error; err != nil {
		return fmt.Errorf("create index on payment_sessions: %w", err)
	}
	return nil
}
