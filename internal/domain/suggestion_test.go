package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSuggestionResolveOnce(t *testing.T) {
	s := &OptimizationSuggestion{ID: "sug-1", State: SuggestionPending}

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := s.Resolve(SuggestionAccepted, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.State != SuggestionAccepted {
		t.Fatalf("state = %q, want accepted", s.State)
	}
	if s.ResolvedAt == nil || !s.ResolvedAt.Equal(now) {
		t.Fatalf("ResolvedAt = %v, want %v", s.ResolvedAt, now)
	}

	err := s.Resolve(SuggestionRejected, now.Add(time.Minute))
	if !errors.Is(err, ErrSuggestionResolved) {
		t.Fatalf("second resolve error = %v, want ErrSuggestionResolved", err)
	}
	if s.State != SuggestionAccepted {
		t.Fatalf("state changed after failed transition: %q", s.State)
	}
}

func TestSuggestionResolveRejectsNonTerminalState(t *testing.T) {
	s := &OptimizationSuggestion{ID: "sug-2", State: SuggestionPending}

	if err := s.Resolve(SuggestionPending, time.Now()); err == nil {
		t.Fatal("expected error resolving to pending")
	}
	if s.State != SuggestionPending {
		t.Fatalf("state = %q, want pending", s.State)
	}
}

func TestHaversineMiles(t *testing.T) {
	// Phoenix -> Tucson is roughly 108 miles great-circle.
	phx := Coordinates{Lat: 33.4484, Lon: -112.0740}
	tus := Coordinates{Lat: 32.2226, Lon: -110.9747}

	d := phx.HaversineMiles(tus)
	if d < 100 || d > 120 {
		t.Fatalf("distance = %.1f miles, want ~108", d)
	}

	if same := phx.HaversineMiles(phx); same != 0 {
		t.Fatalf("distance to self = %v, want 0", same)
	}
}

func TestJobDurationDefault(t *testing.T) {
	j := Job{ID: "j1"}
	if got := j.Duration(); got != 90*time.Minute {
		t.Fatalf("default duration = %v, want 90m", got)
	}

	j.DurationMinutes = 45
	if got := j.Duration(); got != 45*time.Minute {
		t.Fatalf("duration = %v, want 45m", got)
	}
}
