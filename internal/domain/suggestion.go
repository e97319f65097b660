package domain

import (
	"errors"
	"fmt"
	"time"
)

// SuggestionState is the lifecycle of an optimization suggestion.
type SuggestionState string

const (
	SuggestionPending  SuggestionState = "pending"
	SuggestionAccepted SuggestionState = "accepted"
	SuggestionRejected SuggestionState = "rejected"
)

// ErrSuggestionResolved is returned when a transition is attempted on a
// suggestion that has already been accepted or rejected.
var ErrSuggestionResolved = errors.New("suggestion already resolved")

// Savings quantifies the difference between an original and an optimized
// route. All values are clamped at zero: a non-improving optimization
// reports no savings rather than negative ones.
type Savings struct {
	TimeSavedSeconds    float64
	DistanceSavedMeters float64
	DistanceSavedMiles  float64
	FuelSavedGallons    float64
	FuelSavedDollars    float64
	CarbonSavedLbs      float64
	CarbonSavedKg       float64
}

// TimeSaved returns the time delta as a duration for threshold checks.
func (s Savings) TimeSaved() time.Duration {
	return time.Duration(s.TimeSavedSeconds * float64(time.Second))
}

// OptimizationSuggestion pairs an original route with an optimized
// replacement for the same job set and tracks a single pending ->
// accepted/rejected transition. Acceptance is the only transition with side
// effects (the schedule rewrite), and that side effect is owned by the
// workflow, not by this entity.
type OptimizationSuggestion struct {
	ID         string
	WorkerID   string
	Day        time.Time
	Original   *Route
	Optimized  *Route
	Savings    Savings
	State      SuggestionState
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// Resolve moves the suggestion to a terminal state exactly once.
func (s *OptimizationSuggestion) Resolve(to SuggestionState, at time.Time) error {
	if s.State != SuggestionPending {
		return fmt.Errorf("resolve suggestion %s as %s: %w (state=%s)", s.ID, to, ErrSuggestionResolved, s.State)
	}

	if to != SuggestionAccepted && to != SuggestionRejected {
		return fmt.Errorf("resolve suggestion %s: %q is not a terminal state", s.ID, to)
	}

	s.State = to
	s.ResolvedAt = &at
	return nil
}
