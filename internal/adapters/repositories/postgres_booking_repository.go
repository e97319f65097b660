package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/ports"
)

// Postgres-backed implementation of the JobRepository and ScheduleSink ports.
type PostgresBookingRepository struct{ DB *sql.DB }

func NewPostgresBookingRepository(db *sql.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{DB: db}
}

// Return one worker's approved bookings for a calendar day, in scheduled
// order (unscheduled jobs last).
func (r *PostgresBookingRepository) ListWorkerJobs(
	ctx context.Context,
	workerID string,
	day time.Time,
) ([]domain.Job, error) {
	if r.DB == nil {
		return nil, errors.New("booking repository: DB is nil")
	}

	query := `
	SELECT
		job_id,
		worker_id,
		category,
		location,
		lat,
		lon,
		scheduled_date,
		scheduled_at,
		duration_minutes
	FROM bookings
	WHERE worker_id = $1
	  AND scheduled_date = $2::date
	  AND status = 'approved'
	ORDER BY scheduled_at NULLS LAST, job_id;
	`

	rows, err := r.DB.QueryContext(ctx, query, workerID, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list worker jobs: query bookings table: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0, 16)
	for rows.Next() {
		var (
			j           domain.Job
			lat, lon    sql.NullFloat64
			scheduledAt sql.NullTime
		)

		err := rows.Scan(
			&j.ID,
			&j.WorkerID,
			&j.Category,
			&j.Location,
			&lat,
			&lon,
			&j.ScheduledDate,
			&scheduledAt,
			&j.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("list worker jobs: scan row: %w", err)
		}

		// Latitude and longitude are only meaningful together.
		if lat.Valid && lon.Valid {
			j.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		if scheduledAt.Valid {
			ts := scheduledAt.Time
			j.ScheduledAt = &ts
		}

		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list worker jobs: row iteration: %w", err)
	}

	return jobs, nil
}

// ApplySchedule rewrites scheduled times for all listed jobs in a single
// transaction. Any missing job or failed update rolls the whole batch back,
// which is the structural guarantee the acceptance workflow relies on.
func (r *PostgresBookingRepository) ApplySchedule(
	ctx context.Context,
	updates []ports.ScheduleUpdate,
) error {
	if r.DB == nil {
		return errors.New("booking repository: DB is nil")
	}

	if len(updates) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply schedule: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	UPDATE bookings
	SET scheduled_at = $1
	WHERE job_id = $2;
	`)
	if err != nil {
		return fmt.Errorf("apply schedule: prepare update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		res, err := stmt.ExecContext(ctx, u.ScheduledAt, u.JobID)
		if err != nil {
			return fmt.Errorf("apply schedule: update job %s: %w", u.JobID, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("apply schedule: rows affected for job %s: %w", u.JobID, err)
		}
		if n != 1 {
			return fmt.Errorf("apply schedule: job %s not found (updated %d rows)", u.JobID, n)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply schedule: commit: %w", err)
	}

	return nil
}
