package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-route-service/internal/adapters/distance"
	"booking-route-service/internal/domain"
)

type fakeJobRepo struct {
	byWorker map[string][]domain.Job
	err      error
}

func (r *fakeJobRepo) ListWorkerJobs(ctx context.Context, workerID string, day time.Time) ([]domain.Job, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.byWorker[workerID], nil
}

func workerJob(workerID, id string, lat, lon float64) domain.Job {
	j := jobAt(id, lat, lon)
	j.WorkerID = workerID
	return j
}

func TestRunDailyOptimization(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	repo := &fakeJobRepo{byWorker: map[string][]domain.Job{
		// Detour order: optimization saves hours of equatorial driving.
		"w1": {
			workerJob("w1", "a", 0, 0),
			workerJob("w1", "c", 0, 10),
			workerJob("w1", "b", 0, 5),
		},
		// A single located job: nothing to optimize, skipped quietly. The
		// unlocated job is excluded from planning but still counted.
		"w2": {
			workerJob("w2", "solo", 33.4, -112.0),
			{ID: "nofix", WorkerID: "w2", Category: "property", Location: "123 Main St"},
		},
		// Already optimal: zero savings falls below threshold, skipped.
		"w3": {
			workerJob("w3", "a", 0, 0),
			workerJob("w3", "b", 0, 5),
			workerJob("w3", "c", 0, 10),
		},
	}}

	workflow := NewWorkflow(&recordingSink{}, WorkflowConfig{})
	req := DailyRunRequest{Day: day, WorkerIDs: []string{"w1", "w2", "w3"}}

	suggestions, reports, err := RunDailyOptimization(context.Background(), req, repo, distance.NewHaversineOracle(), workflow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}

	s := suggestions[0]
	if s.WorkerID != "w1" {
		t.Fatalf("suggestion worker = %q, want w1", s.WorkerID)
	}
	if s.State != domain.SuggestionPending {
		t.Fatalf("state = %q, want pending", s.State)
	}
	if got := s.Optimized.JobIDs(); got[1] != "b" {
		t.Fatalf("optimized order = %v, want the detour corrected", got)
	}
	if s.Savings.TimeSavedSeconds <= 0 {
		t.Fatal("expected a positive time saving")
	}

	// Every requested worker gets a cluster report, sorted by worker ID,
	// whether or not a suggestion came out of their day.
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	for i, want := range []string{"w1", "w2", "w3"} {
		if reports[i].WorkerID != want {
			t.Fatalf("reports[%d].WorkerID = %q, want %q", i, reports[i].WorkerID, want)
		}
	}

	// Equatorial stops 5 degrees apart sit far outside the default 10-mile
	// radius, so each is its own cluster.
	w1 := reports[0]
	if len(w1.Clusters) != 3 || !w1.SpreadOut() {
		t.Fatalf("w1 clusters = %d (spread=%v), want 3 separate clusters", len(w1.Clusters), w1.SpreadOut())
	}

	w2 := reports[1]
	if w2.JobCount != 2 || w2.UnlocatedCount != 1 {
		t.Fatalf("w2 report = %+v, want 2 jobs with 1 unlocated", w2)
	}
	if len(w2.Clusters) != 1 || w2.SpreadOut() {
		t.Fatalf("w2 clusters = %d, want a single cluster for the lone located job", len(w2.Clusters))
	}
}

func TestRunDailyOptimizationRepoFailure(t *testing.T) {
	repo := &fakeJobRepo{err: errors.New("db offline")}
	workflow := NewWorkflow(&recordingSink{}, WorkflowConfig{})

	req := DailyRunRequest{
		Day:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WorkerIDs: []string{"w1"},
	}

	_, _, err := RunDailyOptimization(context.Background(), req, repo, distance.NewHaversineOracle(), workflow)
	if err == nil {
		t.Fatal("expected repository failure to surface")
	}
}
