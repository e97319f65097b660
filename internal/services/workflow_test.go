package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/ports"
)

// recordingSink captures ApplySchedule calls and can fail on demand,
// mimicking the all-or-nothing persistence boundary.
type recordingSink struct {
	applied [][]ports.ScheduleUpdate
	failErr error
}

func (s *recordingSink) ApplySchedule(ctx context.Context, updates []ports.ScheduleUpdate) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.applied = append(s.applied, updates)
	return nil
}

func testSuggestionInput() (time.Time, *domain.Route, *domain.Route) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	jobs := []domain.Job{
		{ID: "j1", DurationMinutes: 60},
		{ID: "j2"}, // defaults to 90 minutes
		{ID: "j3", DurationMinutes: 30},
	}

	original := &domain.Route{
		WorkerID:             "w1",
		Jobs:                 []domain.Job{jobs[0], jobs[2], jobs[1]},
		TotalDurationSeconds: 7200,
		TotalDistanceMeters:  domain.MilesToMeters(40),
	}
	optimized := &domain.Route{
		WorkerID:             "w1",
		Jobs:                 jobs,
		TotalDurationSeconds: 4800,
		TotalDistanceMeters:  domain.MilesToMeters(22),
	}

	return day, original, optimized
}

func TestWorkflowCreateSuggestion(t *testing.T) {
	day, original, optimized := testSuggestionInput()
	w := NewWorkflow(&recordingSink{}, WorkflowConfig{})

	savings := ComputeSavings(original, optimized, DefaultSavingsConfig())
	s, err := w.CreateSuggestion(day, original, optimized, savings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.State != domain.SuggestionPending {
		t.Fatalf("state = %q, want pending", s.State)
	}
	if s.ID == "" || s.WorkerID != "w1" {
		t.Fatalf("unexpected identity: id=%q worker=%q", s.ID, s.WorkerID)
	}
}

func TestWorkflowCreateSuggestionBelowThreshold(t *testing.T) {
	day, original, optimized := testSuggestionInput()
	w := NewWorkflow(&recordingSink{}, WorkflowConfig{})

	// 10 minutes saved is under the 15-minute default.
	optimized.TotalDurationSeconds = original.TotalDurationSeconds - 600
	savings := ComputeSavings(original, optimized, DefaultSavingsConfig())

	_, err := w.CreateSuggestion(day, original, optimized, savings)
	if !errors.Is(err, ErrBelowThreshold) {
		t.Fatalf("error = %v, want ErrBelowThreshold", err)
	}
}

func TestWorkflowAcceptWalksSchedule(t *testing.T) {
	day, original, optimized := testSuggestionInput()
	sink := &recordingSink{}
	w := NewWorkflow(sink, WorkflowConfig{})

	savings := ComputeSavings(original, optimized, DefaultSavingsConfig())
	s, err := w.CreateSuggestion(day, original, optimized, savings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Accept(context.Background(), s); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if s.State != domain.SuggestionAccepted {
		t.Fatalf("state = %q, want accepted", s.State)
	}
	if len(sink.applied) != 1 {
		t.Fatalf("sink called %d times, want exactly 1", len(sink.applied))
	}

	updates := sink.applied[0]
	wantTimes := []time.Time{
		// 08:00 start; +60m job +30m buffer; +90m default job +30m buffer.
		time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC),
	}

	for i, want := range wantTimes {
		if updates[i].JobID != optimized.Jobs[i].ID {
			t.Fatalf("update %d job = %q, want %q", i, updates[i].JobID, optimized.Jobs[i].ID)
		}
		if !updates[i].ScheduledAt.Equal(want) {
			t.Fatalf("update %d time = %v, want %v", i, updates[i].ScheduledAt, want)
		}
	}
}

func TestWorkflowAcceptSinkFailureLeavesPending(t *testing.T) {
	day, original, optimized := testSuggestionInput()
	sink := &recordingSink{failErr: errors.New("write 2 of 3 rejected")}
	w := NewWorkflow(sink, WorkflowConfig{})

	savings := ComputeSavings(original, optimized, DefaultSavingsConfig())
	s, err := w.CreateSuggestion(day, original, optimized, savings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = w.Accept(context.Background(), s)

	var sinkErr *SinkError
	if !errors.As(err, &sinkErr) {
		t.Fatalf("error = %v, want *SinkError", err)
	}
	if s.State != domain.SuggestionPending {
		t.Fatalf("state = %q, want pending after sink failure", s.State)
	}
	if len(sink.applied) != 0 {
		t.Fatalf("no schedule writes should survive a sink failure, got %d", len(sink.applied))
	}

	// The failure is retryable: a recovered sink accepts on the next attempt.
	sink.failErr = nil
	if err := w.Accept(context.Background(), s); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if s.State != domain.SuggestionAccepted {
		t.Fatalf("state = %q, want accepted after retry", s.State)
	}
}

func TestWorkflowDoubleResolution(t *testing.T) {
	day, original, optimized := testSuggestionInput()
	w := NewWorkflow(&recordingSink{}, WorkflowConfig{})

	savings := ComputeSavings(original, optimized, DefaultSavingsConfig())
	s, _ := w.CreateSuggestion(day, original, optimized, savings)

	if err := w.Reject(s); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if err := w.Accept(context.Background(), s); !errors.Is(err, domain.ErrSuggestionResolved) {
		t.Fatalf("error = %v, want ErrSuggestionResolved", err)
	}
	if err := w.Reject(s); !errors.Is(err, domain.ErrSuggestionResolved) {
		t.Fatalf("error = %v, want ErrSuggestionResolved", err)
	}
}
