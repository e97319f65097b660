package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultJobDurationMinutes is assumed when a booking arrives without an
// estimated shoot length.
const DefaultJobDurationMinutes = 90

// Job is a single schedulable unit of field work: one shoot at one location
// on one calendar day.
//
// Coordinates may be absent (job not yet geocoded); such jobs are excluded
// from route optimization and clustering but remain schedulable. Location
// is the textual address used as a fallback identity when coordinates are
// missing.
type Job struct {
	ID              string
	WorkerID        string
	Category        string
	Location        string
	Coordinates     *Coordinates
	ScheduledDate   time.Time
	ScheduledAt     *time.Time
	DurationMinutes int
}

// HasCoordinates reports whether the job can participate in geographic
// planning.
func (j Job) HasCoordinates() bool { return j.Coordinates != nil }

// Duration returns the estimated on-site duration, defaulting when the
// booking did not specify one.
func (j Job) Duration() time.Duration {
	minutes := j.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultJobDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Validate checks structural invariants shared by every Job producer.
func (j Job) Validate() error {
	if strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("job: id must be non-empty")
	}

	if j.DurationMinutes < 0 {
		return fmt.Errorf("job %s: duration must be positive, got %d", j.ID, j.DurationMinutes)
	}

	return nil
}
