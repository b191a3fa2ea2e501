package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // register "sqlite" driver
)

// tsLayout is fixed width so that text comparison orders timestamps.
const tsLayout = "2006-01-02 15:04:05.000000"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS sensor_readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts_utc TEXT NOT NULL,
	sensor_name TEXT NOT NULL,
	value TEXT
);
CREATE INDEX IF NOT EXISTS sensor_readings_ts_idx ON sensor_readings (ts_utc);`

// SQLite is a Store backed by a SQLite database.
type SQLite struct {
	db *sql.DB
	l  *zap.Logger
}

// NewSQLite opens the database at dsn and creates the readings table if needed.
func NewSQLite(ctx context.Context, dsn string, l *zap.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store.NewSQLite: %w", err)
	}

	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.NewSQLite: %w", err)
	}

	l.Info("Opened SQLite database", zap.String("dsn", dsn))

	return &SQLite{db: db, l: l}, nil
}

// Readings implements Store.
func (s *SQLite) Readings(ctx context.Context, q Query) ([]Reading, error) {
	start, end := q.Bounds()

	var sb strings.Builder
	sb.WriteString("SELECT ts_utc, sensor_name, value FROM sensor_readings WHERE ts_utc >= ? AND ts_utc < ?")
	args := []any{start.Format(tsLayout), end.Format(tsLayout)}

	if len(q.Sensors) > 0 {
		sb.WriteString(" AND sensor_name IN (?" + strings.Repeat(", ?", len(q.Sensors)-1) + ")")
		for _, name := range q.Sensors {
			args = append(args, name)
		}
	}

	if q.Order == Descending {
		sb.WriteString(" ORDER BY ts_utc DESC, id DESC")
	} else {
		sb.WriteString(" ORDER BY ts_utc ASC, id ASC")
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var ts string
		var value sql.NullString
		var r Reading
		if err := rows.Scan(&ts, &r.Sensor, &value); err != nil {
			return nil, fmt.Errorf("failed to scan readings: %w", err)
		}

		if r.TS, err = time.ParseInLocation(tsLayout, ts, time.UTC); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", ts, err)
		}
		r.Value = value.String

		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read readings: %w", err)
	}

	return readings, nil
}

// Insert implements Store.
func (s *SQLite) Insert(ctx context.Context, readings ...Reading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to insert readings: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, r := range readings {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sensor_readings (ts_utc, sensor_name, value) VALUES (?, ?, ?)",
			r.TS.UTC().Format(tsLayout), r.Sensor, r.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert readings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to insert readings: %w", err)
	}

	return nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
