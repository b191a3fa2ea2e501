package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	zapadapter "github.com/jackc/pgx-zap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
	l    *zap.Logger
}

// NewPostgres connects to dsn and checks the connection.
func NewPostgres(ctx context.Context, dsn string, l *zap.Logger) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store.NewPostgres: %w", err)
	}

	config.ConnConfig.RuntimeParams["timezone"] = "UTC"
	config.ConnConfig.RuntimeParams["application_name"] = "picarx-dash"
	config.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   zapadapter.NewLogger(l.Named("pgx")),
		LogLevel: pgxLogLevel(l),
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("store.NewPostgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store.NewPostgres: %w", err)
	}

	l.Info("Connected to Postgres", zap.String("host", config.ConnConfig.Host), zap.String("database", config.ConnConfig.Database))

	return &Postgres{pool: pool, l: l}, nil
}

// pgxLogLevel returns the pgx trace level matching l.
// pgx logs every query at info, so queries only show up when l logs debug messages.
func pgxLogLevel(l *zap.Logger) tracelog.LogLevel {
	if l.Core().Enabled(zapcore.DebugLevel) {
		return tracelog.LogLevelInfo
	}
	return tracelog.LogLevelWarn
}

// Readings implements Store.
func (p *Postgres) Readings(ctx context.Context, q Query) ([]Reading, error) {
	start, end := q.Bounds()

	var sb strings.Builder
	sb.WriteString("SELECT ts_utc, sensor_name, value::text FROM sensor_readings WHERE ts_utc >= $1 AND ts_utc < $2")
	args := []any{start, end}

	if len(q.Sensors) > 0 {
		sb.WriteString(" AND sensor_name = ANY($3)")
		args = append(args, q.Sensors)
	}

	if q.Order == Descending {
		sb.WriteString(" ORDER BY ts_utc DESC")
	} else {
		sb.WriteString(" ORDER BY ts_utc ASC")
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", pgError(err))
	}

	readings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Reading, error) {
		var r Reading
		var value *string
		if err := row.Scan(&r.TS, &r.Sensor, &value); err != nil {
			return r, err
		}
		if value != nil {
			r.Value = *value
		}
		r.TS = r.TS.UTC()
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan readings: %w", pgError(err))
	}

	return readings, nil
}

// Insert implements Store.
func (p *Postgres) Insert(ctx context.Context, readings ...Reading) error {
	if len(readings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range readings {
		batch.Queue("INSERT INTO sensor_readings (ts_utc, sensor_name, value) VALUES ($1, $2, $3)", r.TS.UTC(), r.Sensor, r.Value)
	}

	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert readings: %w", pgError(err))
	}

	return nil
}

// pgError maps well-known PostgreSQL errors to store errors.
func pgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UndefinedTable:
		return fmt.Errorf("%w: %w", ErrNoTable, err)
	default:
		return err
	}
}

// Close implements Store.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
