// Package store persists fetched schedules and fired alerts in SQLite.
//
// The last good schedule per location and date lets the app keep counting
// down when the API is unreachable, and the alert log keeps a restart from
// announcing the same prayer twice.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
)

const driverName = "sqlite"

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schemaSchedules = `
CREATE TABLE IF NOT EXISTS schedules (
    city TEXT NOT NULL,
    country TEXT NOT NULL,
    method INTEGER NOT NULL,
    day TEXT NOT NULL,
    timings TEXT NOT NULL,
    readable TEXT NOT NULL DEFAULT '',
    hijri TEXT NOT NULL DEFAULT '',
    timezone TEXT NOT NULL DEFAULT '',
    fetched_at TEXT NOT NULL,
    PRIMARY KEY (city, country, method, day)
);
`

const schemaAlerts = `
CREATE TABLE IF NOT EXISTS alerts (
    id TEXT PRIMARY KEY,
    day TEXT NOT NULL,
    prayer TEXT NOT NULL,
    fired_at TEXT NOT NULL,
    city TEXT NOT NULL,
    country TEXT NOT NULL,
    UNIQUE (day, prayer)
);
`

// SavedSchedule is a schedule as persisted for one location and date.
type SavedSchedule struct {
	Location common.Location
	// Day is a prayer.DateKey.
	Day       string
	Schedule  prayer.Schedule
	Readable  string
	Hijri     string
	Timezone  string
	FetchedAt time.Time
}

// Alert is one fired prayer alert.
type Alert struct {
	ID      string
	Day     string
	Prayer  prayer.Name
	FiredAt time.Time
	City    string
	Country string
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the database location under the user's data dir.
func DefaultPath() (string, error) {
	dir, err := common.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.DatabaseName), nil
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", common.ErrStoreUnavailable, err)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite at %q: %v", common.ErrStoreUnavailable, path, err)
	}

	// One writer: the tracker loop.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %v", common.ErrStoreUnavailable, pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return &Store{db: db}, nil
}

// New wraps an already opened database. The schema is assumed to exist.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{schemaSchedules, schemaAlerts} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// SaveSchedule inserts or replaces the schedule for its location and day.
func (s *Store) SaveSchedule(ctx context.Context, saved SavedSchedule) error {
	timings, err := json.Marshal(saved.Schedule)
	if err != nil {
		return fmt.Errorf("encode timings: %w", err)
	}
	if saved.FetchedAt.IsZero() {
		saved.FetchedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (city, country, method, day, timings, readable, hijri, timezone, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (city, country, method, day) DO UPDATE SET
			timings = excluded.timings,
			readable = excluded.readable,
			hijri = excluded.hijri,
			timezone = excluded.timezone,
			fetched_at = excluded.fetched_at
	`,
		normalize(saved.Location.City),
		normalize(saved.Location.Country),
		saved.Location.Method,
		saved.Day,
		string(timings),
		saved.Readable,
		saved.Hijri,
		saved.Timezone,
		saved.FetchedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("%w: save schedule: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// LoadSchedule returns the saved schedule for loc on day. It returns an
// error wrapping common.ErrScheduleMissing when nothing was saved.
func (s *Store) LoadSchedule(ctx context.Context, loc common.Location, day string) (*SavedSchedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT timings, readable, hijri, timezone, fetched_at
		FROM schedules
		WHERE city = ? AND country = ? AND method = ? AND day = ?
	`, normalize(loc.City), normalize(loc.Country), loc.Method, day)

	var timings, fetchedAt string
	saved := SavedSchedule{Location: loc, Day: day}
	err := row.Scan(&timings, &saved.Readable, &saved.Hijri, &saved.Timezone, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s on %s", common.ErrScheduleMissing, loc, day)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load schedule: %v", common.ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal([]byte(timings), &saved.Schedule); err != nil {
		return nil, fmt.Errorf("decode timings: %w", err)
	}
	if t, err := time.Parse(timeLayout, fetchedAt); err == nil {
		saved.FetchedAt = t
	}
	return &saved, nil
}

// RecordAlert stores a fired alert. Recording the same prayer twice on one
// day is a no-op.
func (s *Store) RecordAlert(ctx context.Context, a Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.FiredAt.IsZero() {
		a.FiredAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO alerts (id, day, prayer, fired_at, city, country)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Day, string(a.Prayer), a.FiredAt.UTC().Format(timeLayout), a.City, a.Country)
	if err != nil {
		return fmt.Errorf("%w: record alert: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// AlertsOn returns the alerts fired on day, oldest first.
func (s *Store) AlertsOn(ctx context.Context, day string) ([]Alert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, day, prayer, fired_at, city, country
		FROM alerts WHERE day = ?
		ORDER BY fired_at ASC
	`, day)
}

// RecentAlerts returns up to limit alerts, newest first.
func (s *Store) RecentAlerts(ctx context.Context, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryAlerts(ctx, `
		SELECT id, day, prayer, fired_at, city, country
		FROM alerts
		ORDER BY fired_at DESC
		LIMIT ?
	`, limit)
}

func (s *Store) queryAlerts(ctx context.Context, query string, args ...any) ([]Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query alerts: %v", common.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var out []Alert
	for rows.Next() {
		var a Alert
		var name, firedAt string
		if err := rows.Scan(&a.ID, &a.Day, &name, &firedAt, &a.City, &a.Country); err != nil {
			return nil, fmt.Errorf("%w: scan alert: %v", common.ErrStoreUnavailable, err)
		}
		a.Prayer = prayer.Name(name)
		if t, err := time.Parse(timeLayout, firedAt); err == nil {
			a.FiredAt = t.Local()
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate alerts: %v", common.ErrStoreUnavailable, err)
	}
	return out, nil
}
