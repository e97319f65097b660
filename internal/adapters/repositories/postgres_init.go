package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema for bookings and the travel cache.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBookingsQuery := `
	CREATE TABLE IF NOT EXISTS bookings (
		job_id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL,
		category TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		scheduled_date DATE NOT NULL,
		scheduled_at TIMESTAMPTZ,
		duration_minutes INTEGER NOT NULL DEFAULT 90,
		status TEXT NOT NULL DEFAULT 'approved'
	);
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_bookings_worker_date
	ON bookings(worker_id, scheduled_date);
	`

	statements := []string{
		createBookingsQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}

	return nil
}

type seedBooking struct {
	JobID           string   `json:"job_id"`
	WorkerID        string   `json:"worker_id"`
	Category        string   `json:"category"`
	Location        string   `json:"location"`
	Lat             *float64 `json:"lat"`
	Lon             *float64 `json:"lon"`
	ScheduledDate   string   `json:"scheduled_date"`
	ScheduledAt     *string  `json:"scheduled_at"`
	DurationMinutes int      `json:"duration_minutes"`
}

// SeedFromJSON loads demo bookings for local runs. Existing rows with the
// same job_id are replaced.
func SeedFromJSON(db *sql.DB, path string) error {
	if db == nil {
		return errors.New("seed bookings: DB is nil")
	}

	if strings.TrimSpace(path) == "" {
		return errors.New("seed bookings: path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed bookings: read seed file %q: %w", path, err)
	}

	var seeds []seedBooking
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("seed bookings: parse seed file %q: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed bookings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO bookings (job_id, worker_id, category, location, lat, lon, scheduled_date, scheduled_at, duration_minutes)
	VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::timestamptz, $9)
	ON CONFLICT (job_id) DO UPDATE
	SET worker_id = EXCLUDED.worker_id,
		category = EXCLUDED.category,
		location = EXCLUDED.location,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		scheduled_date = EXCLUDED.scheduled_date,
		scheduled_at = EXCLUDED.scheduled_at,
		duration_minutes = EXCLUDED.duration_minutes;
	`)
	if err != nil {
		return fmt.Errorf("seed bookings: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range seeds {
		if strings.TrimSpace(s.JobID) == "" {
			return errors.New("seed bookings: entry with empty job_id")
		}

		duration := s.DurationMinutes
		if duration <= 0 {
			duration = 90
		}

		_, err := stmt.Exec(
			s.JobID, s.WorkerID, s.Category, s.Location,
			s.Lat, s.Lon, s.ScheduledDate, s.ScheduledAt, duration,
		)
		if err != nil {
			return fmt.Errorf("seed bookings: insert job %q: %w", s.JobID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed bookings: commit: %w", err)
	}

	return nil
}
