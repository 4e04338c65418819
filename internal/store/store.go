// Package store opens and migrates the relational store. Two drivers are
// supported: postgres (hosted deployments, via lib/pq) and sqlite (local and
// dev, via the cgo-free modernc driver). Statements elsewhere use $N
// placeholders, which both drivers accept, so only the DDL differs here.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema if it does not exist. The generation_runs
// marker table is the storage-level guarantee behind the engine's
// at-most-once-per-day invariant. TIMESTAMP (not TIMESTAMPTZ) throughout
// because the sqlite driver only maps exact TIMESTAMP/DATETIME decltypes
// back to time.Time; all stored times are UTC.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS task_templates (
			id               TEXT PRIMARY KEY,
			trigger_type     TEXT NOT NULL,
			trigger_value    TEXT NOT NULL DEFAULT '',
			sub_category     TEXT NOT NULL DEFAULT '',
			is_active        BOOLEAN NOT NULL DEFAULT TRUE,
			title            TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			category         TEXT NOT NULL DEFAULT '',
			action_type      TEXT NOT NULL DEFAULT '',
			priority         TEXT NOT NULL DEFAULT 'medium',
			priority_weight  INTEGER NOT NULL DEFAULT 3,
			pulse_impact     DOUBLE PRECISION NOT NULL DEFAULT 0,
			display_category TEXT NOT NULL DEFAULT '',
			impact_area      TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMP   NOT NULL,
			updated_at       TIMESTAMP   NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS daily_actions (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			action_date      TEXT NOT NULL,
			action_type      TEXT NOT NULL DEFAULT '',
			title            TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			priority         TEXT NOT NULL DEFAULT 'medium',
			status           TEXT NOT NULL DEFAULT 'not_started',
			is_recurring     BOOLEAN NOT NULL DEFAULT FALSE,
			generated        BOOLEAN NOT NULL DEFAULT FALSE,
			category         TEXT NOT NULL DEFAULT '',
			pulse_impact     DOUBLE PRECISION NOT NULL DEFAULT 0,
			display_category TEXT NOT NULL DEFAULT '',
			priority_weight  INTEGER NOT NULL DEFAULT 3,
			impact_area      TEXT NOT NULL DEFAULT '',
			metadata         TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMP   NOT NULL,
			updated_at       TIMESTAMP   NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS daily_actions_user_date
			ON daily_actions (user_id, action_date)`,
		// One marker row per generation run. A batch of generated
		// actions claims its (user, date) here inside the same
		// transaction, so a racing run hits the primary key instead of
		// writing a second batch. Uniqueness cannot live on
		// daily_actions itself: a single run inserts many generated
		// rows for the same user and date.
		`CREATE TABLE IF NOT EXISTS generation_runs (
			user_id     TEXT NOT NULL,
			action_date TEXT NOT NULL,
			created_at  TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, action_date)
		)`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
