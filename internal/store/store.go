// Package store reads and writes sensor readings.
//
// Readings live in a single sensor_readings table (ts_utc, sensor_name, value).
// Postgres is the production backend; SQLite serves local development and tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Sensor names as recorded by the robot.
const (
	SensorUltrasonic = "ultrasonic_distance"
	SensorGrayLeft   = "grayscale_left"
	SensorGrayMid    = "grayscale_mid"
	SensorGrayRight  = "grayscale_right"
)

// GraySensors are the three grayscale sensors, left to right.
var GraySensors = []string{SensorGrayLeft, SensorGrayMid, SensorGrayRight}

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrUnknownDriver is returned by Open for an unsupported driver.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrNoTable is returned when the sensor_readings table does not exist.
	ErrNoTable = errors.New("sensor_readings table does not exist")
)

// Reading is a single sensor sample. Value is kept as recorded; it is not always numeric.
type Reading struct {
	TS     time.Time `json:"ts_utc"`
	Sensor string    `json:"sensor_name"`
	Value  string    `json:"value"`
}

// Order is the ts_utc sort order of a query.
type Order int

const (
	// Ascending returns oldest readings first.
	Ascending Order = iota
	// Descending returns newest readings first.
	Descending
)

// Query selects the readings of one UTC day.
type Query struct {
	// Day is any instant within the requested UTC day.
	Day time.Time

	// Sensors restricts the result to these sensors; empty means all.
	Sensors []string

	Order Order

	// Limit caps the number of rows; zero means no limit.
	Limit int
}

// Bounds returns the half-open UTC interval [start, end) of the queried day.
func (q Query) Bounds() (time.Time, time.Time) {
	d := q.Day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Store is a sensor readings backend.
type Store interface {
	// Readings returns the readings matching q.
	Readings(ctx context.Context, q Query) ([]Reading, error)

	// Insert records readings.
	Insert(ctx context.Context, readings ...Reading) error

	// Close releases the backend.
	Close() error
}

// Open connects to the backend named by driver.
func Open(ctx context.Context, driver, dsn string, l *zap.Logger) (Store, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgres(ctx, dsn, l)
	case DriverSQLite:
		return NewSQLite(ctx, dsn, l)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
