package runner

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DB is the subset of *sql.DB used for bookkeeping.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MigrationRecord is one row of the bookkeeping table.
type MigrationRecord struct {
	Version       int64
	MigrationName string
	StartTime     time.Time
	EndTime       time.Time
	Breakpoint    bool
}

// ExecutionTime is how long the migration took to apply.
func (r MigrationRecord) ExecutionTime() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

const timeFormat = "2006-01-02 15:04:05"

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// EnsureTable creates the bookkeeping table with the layout the migration
// runner expects.
func EnsureTable(ctx context.Context, db DB, table string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		version BIGINT NOT NULL,
		migration_name VARCHAR(100) NULL,
		start_time TIMESTAMP NULL,
		end_time TIMESTAMP NULL,
		breakpoint TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (version)
	) ENGINE=InnoDB`, quoteIdent(table)))
	if err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}
	return nil
}

// TableExists reports whether table exists in the current database.
func TableExists(ctx context.Context, db DB, table string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?`, table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return count > 0, nil
}

// MarkMigrated records a generated migration as already applied, so the
// runner does not replay changes that exist in the live database.
func MarkMigrated(ctx context.Context, db DB, table string, version int64, name string, start, end time.Time) error {
	if err := EnsureTable(ctx, db, table); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (version, migration_name, start_time, end_time, breakpoint)
		VALUES (?, ?, ?, ?, 0)`, quoteIdent(table)),
		version, truncate(name, 100), start.Format(timeFormat), end.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("marking migration %d as migrated: %w", version, err)
	}
	return nil
}

// AppliedVersions returns the versions recorded in the bookkeeping table.
// A missing table means nothing was applied yet.
func AppliedVersions(ctx context.Context, db DB, table string) (map[int64]bool, error) {
	exists, err := TableExists(ctx, db, table)
	if err != nil {
		return nil, err
	}
	applied := map[int64]bool{}
	if !exists {
		return applied, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT version FROM %s`, quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating applied migrations: %w", err)
	}
	return applied, nil
}

// History returns the most recent records first; limit <= 0 returns all.
func History(ctx context.Context, db DB, table string, limit int) ([]MigrationRecord, error) {
	query := fmt.Sprintf(`
		SELECT version, COALESCE(migration_name, ''), start_time, end_time, breakpoint
		FROM %s
		ORDER BY version DESC`, quoteIdent(table))

	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query migration history: %w", err)
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var (
			record     MigrationRecord
			start, end sql.NullString
		)
		if err := rows.Scan(&record.Version, &record.MigrationName, &start, &end, &record.Breakpoint); err != nil {
			return nil, fmt.Errorf("scan migration record: %w", err)
		}
		record.StartTime = parseTime(start)
		record.EndTime = parseTime(end)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migration history: %w", err)
	}
	return records, nil
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	for _, layout := range []string{timeFormat, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
