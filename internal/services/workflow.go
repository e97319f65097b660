package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/metrics"
	"booking-route-service/internal/ports"
)

// ErrBelowThreshold means an optimization ran but the time saving is too
// small to surface to a human.
var ErrBelowThreshold = errors.New("time saving below suggestion threshold")

// SinkError wraps a schedule-sink failure during acceptance. It is
// retryable: the sink guarantees nothing was written, and the suggestion is
// left pending.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("schedule sink: %v", e.Err) }
func (e *SinkError) Unwrap() error { return e.Err }

// WorkflowConfig tunes suggestion creation and the acceptance schedule walk.
type WorkflowConfig struct {
	// MinTimeSaving is the smallest improvement worth a suggestion.
	MinTimeSaving time.Duration

	// DayStart is the wall-clock offset from midnight where the first job
	// of an accepted route is scheduled.
	DayStart time.Duration

	// TravelBuffer is the fixed inter-job allowance added on top of each
	// job's estimated duration when walking the accepted route.
	TravelBuffer time.Duration
}

func (c WorkflowConfig) normalize() WorkflowConfig {
	if c.MinTimeSaving <= 0 {
		c.MinTimeSaving = 15 * time.Minute
	}
	if c.DayStart <= 0 {
		c.DayStart = 8 * time.Hour
	}
	if c.TravelBuffer <= 0 {
		c.TravelBuffer = 30 * time.Minute
	}
	return c
}

// Workflow owns the suggestion lifecycle: creation above the savings
// threshold, rejection, and acceptance, which atomically rewrites every
// job's scheduled time through the caller-provided sink.
type Workflow struct {
	sink ports.ScheduleSink
	cfg  WorkflowConfig
	now  func() time.Time
}

func NewWorkflow(sink ports.ScheduleSink, cfg WorkflowConfig) *Workflow {
	return &Workflow{
		sink: sink,
		cfg:  cfg.normalize(),
		now:  time.Now,
	}
}

// CreateSuggestion pairs the two routes into a pending suggestion, or
// reports ErrBelowThreshold when the saving is not worth surfacing.
func (w *Workflow) CreateSuggestion(
	day time.Time,
	original, optimized *domain.Route,
	savings domain.Savings,
) (*domain.OptimizationSuggestion, error) {
	if original == nil || optimized == nil {
		return nil, errors.New("create suggestion: both routes are required")
	}

	if savings.TimeSaved() <= w.cfg.MinTimeSaving {
		metrics.Suggestions.WithLabelValues("below_threshold").Inc()
		return nil, fmt.Errorf(
			"create suggestion: %w (saved %s, need > %s)",
			ErrBelowThreshold, savings.TimeSaved().Round(time.Second), w.cfg.MinTimeSaving,
		)
	}

	s := &domain.OptimizationSuggestion{
		ID:        uuid.NewString(),
		WorkerID:  optimized.WorkerID,
		Day:       day,
		Original:  original,
		Optimized: optimized,
		Savings:   savings,
		State:     domain.SuggestionPending,
		CreatedAt: w.now(),
	}

	metrics.Suggestions.WithLabelValues("created").Inc()
	log.Info().
		Str("suggestion_id", s.ID).
		Str("worker_id", s.WorkerID).
		Dur("time_saved", savings.TimeSaved()).
		Float64("miles_saved", savings.DistanceSavedMiles).
		Msg("optimization suggestion created")

	return s, nil
}

// Accept rewrites the schedule for every job in the optimized route and
// marks the suggestion accepted, as one logically atomic unit.
//
// All new times are staged before the sink is called once; the sink's
// all-or-nothing contract means a failure leaves every job untouched and
// the suggestion pending, surfaced as a retryable *SinkError.
func (w *Workflow) Accept(ctx context.Context, s *domain.OptimizationSuggestion) error {
	if s == nil {
		return errors.New("accept suggestion: suggestion is nil")
	}
	if s.State != domain.SuggestionPending {
		return fmt.Errorf("accept suggestion %s: %w (state=%s)", s.ID, domain.ErrSuggestionResolved, s.State)
	}

	updates := w.stageSchedule(s)

	if err := w.sink.ApplySchedule(ctx, updates); err != nil {
		log.Warn().Err(err).
			Str("suggestion_id", s.ID).
			Msg("schedule rewrite failed; suggestion left pending")
		return fmt.Errorf("accept suggestion %s: %w", s.ID, &SinkError{Err: err})
	}

	if err := s.Resolve(domain.SuggestionAccepted, w.now()); err != nil {
		return err
	}

	metrics.Suggestions.WithLabelValues("accepted").Inc()
	log.Info().
		Str("suggestion_id", s.ID).
		Str("worker_id", s.WorkerID).
		Int("jobs", len(updates)).
		Msg("optimization suggestion accepted")

	return nil
}

// Reject closes a pending suggestion without side effects.
func (w *Workflow) Reject(s *domain.OptimizationSuggestion) error {
	if s == nil {
		return errors.New("reject suggestion: suggestion is nil")
	}

	if err := s.Resolve(domain.SuggestionRejected, w.now()); err != nil {
		return err
	}

	metrics.Suggestions.WithLabelValues("rejected").Inc()
	log.Info().Str("suggestion_id", s.ID).Msg("optimization suggestion rejected")
	return nil
}

// stageSchedule walks the optimized order from the configured day start,
// advancing by each job's estimated duration plus the travel buffer.
func (w *Workflow) stageSchedule(s *domain.OptimizationSuggestion) []ports.ScheduleUpdate {
	day := s.Day
	cursor := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
		Add(w.cfg.DayStart)

	updates := make([]ports.ScheduleUpdate, 0, len(s.Optimized.Jobs))
	for _, job := range s.Optimized.Jobs {
		updates = append(updates, ports.ScheduleUpdate{JobID: job.ID, ScheduledAt: cursor})
		cursor = cursor.Add(job.Duration() + w.cfg.TravelBuffer)
	}

	return updates
}
