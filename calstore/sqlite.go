// Package calstore provides the persistence backends for calibration
// overrides: a SQLite store for stations and an in-memory store for tests
// and one-off preview sessions.
package calstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/spoolworks/labelpress/calibration"
)

// SQLite keeps one row per (station, profile) pair. Writes are upserts, so
// re-calibrating a station replaces the previous correction atomically.
type SQLite struct {
	db *sql.DB
}

var _ calibration.Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the override database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "labelpress.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS calibration_overrides (
		station_id  TEXT NOT NULL,
		profile_id  TEXT NOT NULL,
		scale_x     REAL NOT NULL,
		scale_y     REAL NOT NULL,
		offset_x_mm REAL NOT NULL,
		offset_y_mm REAL NOT NULL,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (station_id, profile_id)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create calibration_overrides table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Put upserts one override.
func (s *SQLite) Put(ctx context.Context, o calibration.Override) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO calibration_overrides
		(station_id, profile_id, scale_x, scale_y, offset_x_mm, offset_y_mm, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(station_id, profile_id) DO UPDATE SET
			scale_x     = excluded.scale_x,
			scale_y     = excluded.scale_y,
			offset_x_mm = excluded.offset_x_mm,
			offset_y_mm = excluded.offset_y_mm,
			updated_at  = excluded.updated_at`,
		o.StationID, o.ProfileID, o.ScaleX, o.ScaleY, o.OffsetXMm, o.OffsetYMm,
		o.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// Get looks up the override for one pair; ok is false when the station was
// never calibrated for the profile.
func (s *SQLite) Get(ctx context.Context, stationID, profileID string) (calibration.Override, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT station_id, profile_id, scale_x, scale_y,
		offset_x_mm, offset_y_mm, updated_at
		FROM calibration_overrides WHERE station_id = ? AND profile_id = ?`,
		stationID, profileID)
	o, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return calibration.Override{}, false, nil
	}
	if err != nil {
		return calibration.Override{}, false, err
	}
	return o, true, nil
}

// List returns every stored override ordered by station then profile.
func (s *SQLite) List(ctx context.Context) ([]calibration.Override, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT station_id, profile_id, scale_x, scale_y,
		offset_x_mm, offset_y_mm, updated_at
		FROM calibration_overrides ORDER BY station_id, profile_id`)
	if err != nil {
		return nil, fmt.Errorf("select overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []calibration.Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Delete removes the override for one pair. Deleting a missing pair is not
// an error.
func (s *SQLite) Delete(ctx context.Context, stationID, profileID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM calibration_overrides WHERE station_id = ? AND profile_id = ?`,
		stationID, profileID)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOverride(row scanner) (calibration.Override, error) {
	var o calibration.Override
	var updated string
	if err := row.Scan(&o.StationID, &o.ProfileID, &o.ScaleX, &o.ScaleY,
		&o.OffsetXMm, &o.OffsetYMm, &updated); err != nil {
		return calibration.Override{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return calibration.Override{}, fmt.Errorf("decode updated_at %q: %w", updated, err)
	}
	o.UpdatedAt = ts
	return o, nil
}
