package ports

import (
	"booking-route-service/internal/domain"
	"context"
	"time"
)

// Port: a boundary for retrieving a worker's approved jobs from a data source.
type JobRepository interface {
	// Retrieve the approved jobs assigned to one worker for one calendar day.
	ListWorkerJobs(ctx context.Context, workerID string, day time.Time) ([]domain.Job, error)
}
