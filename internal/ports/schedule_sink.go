package ports

import (
	"context"
	"time"
)

// ScheduleUpdate is one job's rewritten scheduled time.
type ScheduleUpdate struct {
	JobID       string
	ScheduledAt time.Time
}

// Port: the persistence boundary for accepted suggestions.
//
// ApplySchedule must be all-or-nothing: either every update is persisted or
// none is. A returned error means no job's time changed, so the caller can
// safely retry or leave the suggestion pending.
type ScheduleSink interface {
	ApplySchedule(ctx context.Context, updates []ScheduleUpdate) error
}
