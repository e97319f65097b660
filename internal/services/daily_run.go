package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/platform/obs"
	"booking-route-service/internal/ports"
)

// DailyRunRequest describes one batch optimization pass.
type DailyRunRequest struct {
	Day       time.Time
	WorkerIDs []string

	Optimize OptimizeOptions
	Savings  SavingsConfig

	// ClusterRadiusMiles is the grouping radius for the per-worker cluster
	// report. Defaults to 10 miles.
	ClusterRadiusMiles float64

	// MaxConcurrentWorkers bounds the per-worker fan-out. Worker job sets
	// and schedule mutations are disjoint, so they parallelize safely.
	MaxConcurrentWorkers int
}

// WorkerDayReport is the advisory view of one worker's day: how the located
// jobs group geographically and how many jobs could not participate. It is
// produced for every requested worker, including those whose day yields no
// suggestion.
type WorkerDayReport struct {
	WorkerID       string
	JobCount       int
	UnlocatedCount int
	Clusters       []domain.Cluster
}

// SpreadOut reports whether the day's jobs fall into more than one cluster,
// the rough signal that reordering stops can pay off.
func (r WorkerDayReport) SpreadOut() bool { return len(r.Clusters) > 1 }

// RunDailyOptimization generates suggestions for every worker's day in one
// pass, plus a cluster report per worker. Workers whose day has too few
// located jobs, or whose improvement falls below the suggestion threshold,
// are skipped quietly; any other failure aborts the run.
func RunDailyOptimization(
	ctx context.Context,
	req DailyRunRequest,
	repo ports.JobRepository,
	oracle ports.DistanceOracle,
	workflow *Workflow,
) (_ []*domain.OptimizationSuggestion, _ []WorkerDayReport, err error) {
	defer obs.Time(ctx, "optimizer.RunDailyOptimization")(&err)

	if workflow == nil {
		return nil, nil, errors.New("daily optimization: workflow is required")
	}

	limit := req.MaxConcurrentWorkers
	if limit <= 0 {
		limit = 4
	}
	if req.ClusterRadiusMiles <= 0 {
		req.ClusterRadiusMiles = 10
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	var suggestions []*domain.OptimizationSuggestion
	var reports []WorkerDayReport

	for _, workerID := range req.WorkerIDs {
		workerID := workerID
		g.Go(func() error {
			s, report, err := optimizeWorkerDay(ctx, req, workerID, repo, oracle, workflow)
			if err != nil {
				return err
			}

			mu.Lock()
			reports = append(reports, report)
			if s != nil {
				suggestions = append(suggestions, s)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Fan-out completion order is nondeterministic.
	sort.Slice(reports, func(i, k int) bool { return reports[i].WorkerID < reports[k].WorkerID })

	return suggestions, reports, nil
}

func optimizeWorkerDay(
	ctx context.Context,
	req DailyRunRequest,
	workerID string,
	repo ports.JobRepository,
	oracle ports.DistanceOracle,
	workflow *Workflow,
) (*domain.OptimizationSuggestion, WorkerDayReport, error) {
	jobs, err := repo.ListWorkerJobs(ctx, workerID, req.Day)
	if err != nil {
		return nil, WorkerDayReport{}, fmt.Errorf("daily optimization: list jobs for worker %s: %w", workerID, err)
	}

	_, unlocated := SplitByCoordinates(jobs)
	report := WorkerDayReport{
		WorkerID:       workerID,
		JobCount:       len(jobs),
		UnlocatedCount: len(unlocated),
		Clusters:       ClusterJobs(jobs, req.ClusterRadiusMiles),
	}

	log.Debug().
		Str("worker_id", workerID).
		Int("jobs", report.JobCount).
		Int("unlocated", report.UnlocatedCount).
		Int("clusters", len(report.Clusters)).
		Bool("spread_out", report.SpreadOut()).
		Msg("worker day clustered")

	original, optimized, err := OptimizeWithBaseline(ctx, jobs, oracle, req.Optimize)
	if errors.Is(err, ErrInsufficientJobs) {
		return nil, report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("daily optimization: worker %s: %w", workerID, err)
	}

	savings := ComputeSavings(original, optimized, req.Savings)

	s, err := workflow.CreateSuggestion(req.Day, original, optimized, savings)
	if errors.Is(err, ErrBelowThreshold) {
		return nil, report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("daily optimization: worker %s: %w", workerID, err)
	}

	return s, report, nil
}
