package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/metrics"
	"booking-route-service/internal/platform/obs"
	"booking-route-service/internal/ports"
)

// ErrInsufficientJobs signals that a job set has fewer than two located jobs,
// so there is nothing to reorder. Callers use it to distinguish "nothing to
// optimize" from "optimization ran and kept the identity order".
var ErrInsufficientJobs = errors.New("at least 2 jobs with coordinates are required")

// OptimizeOptions tunes the route search. The zero value is usable; defaults
// are applied by normalize.
type OptimizeOptions struct {
	// FixLastStop pins the final stop of the original order as the route
	// endpoint, for deployments with a fixed end-of-day location.
	FixLastStop bool

	// MaxInFlight bounds concurrent oracle calls during matrix prefetch.
	MaxInFlight int

	// CallTimeout applies to each individual oracle call.
	CallTimeout time.Duration

	// FallbackSpeedMPH converts haversine miles into a duration estimate
	// when the oracle cannot serve a pair.
	FallbackSpeedMPH float64
}

func (o OptimizeOptions) normalize() OptimizeOptions {
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 5
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 10 * time.Second
	}
	if o.FallbackSpeedMPH <= 0 {
		o.FallbackSpeedMPH = 35
	}
	return o
}

type legKey struct{ from, to string }

type legEstimate struct {
	DistanceMeters  float64
	DurationSeconds float64
	Estimated       bool
}

// legMatrix holds one travel estimate per ordered job pair. Both the
// nearest-neighbor search and the final route totals read the same matrix,
// so the reported metrics always match the decisions that produced the
// ordering, regardless of which pairs degraded to fallback estimates.
type legMatrix struct {
	legs      map[legKey]legEstimate
	pairCount int
	fallbacks int
}

func (m *legMatrix) leg(from, to domain.Job) legEstimate {
	return m.legs[legKey{from: from.ID, to: to.ID}]
}

// Optimize computes an efficient visiting order for one worker's located
// jobs using a nearest-neighbor heuristic with a fixed start.
//
// Oracle failures degrade per pair to haversine estimates; a fully
// unavailable oracle still yields a usable route. Cancelling ctx aborts
// in-flight oracle calls and returns promptly.
func Optimize(
	ctx context.Context,
	jobs []domain.Job,
	oracle ports.DistanceOracle,
	opts OptimizeOptions,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	_, optimized, err := optimizeWithMatrix(ctx, jobs, oracle, opts)
	return optimized, err
}

// OptimizeWithBaseline optimizes and also assembles the original-order route
// from the same leg matrix, so that savings comparisons never mix oracle
// metrics on one side with fallback metrics on the other.
func OptimizeWithBaseline(
	ctx context.Context,
	jobs []domain.Job,
	oracle ports.DistanceOracle,
	opts OptimizeOptions,
) (original, optimized *domain.Route, err error) {
	defer obs.Time(ctx, "optimizer.OptimizeWithBaseline")(&err)

	return optimizeWithMatrix(ctx, jobs, oracle, opts)
}

func optimizeWithMatrix(
	ctx context.Context,
	jobs []domain.Job,
	oracle ports.DistanceOracle,
	opts OptimizeOptions,
) (*domain.Route, *domain.Route, error) {
	opts = opts.normalize()

	located, _ := SplitByCoordinates(jobs)
	if len(located) < 2 {
		return nil, nil, fmt.Errorf("optimize route: %w (got %d)", ErrInsufficientJobs, len(located))
	}

	ordered := originalOrder(located)

	matrix, err := buildLegMatrix(ctx, ordered, oracle, opts)
	if err != nil {
		return nil, nil, err
	}

	if matrix.fallbacks == matrix.pairCount && matrix.pairCount > 0 {
		metrics.DegradedRoutes.Inc()
		log.Warn().
			Int("jobs", len(ordered)).
			Msg("travel oracle unavailable for every pair; route quality degraded to haversine estimates")
	}

	original := assembleRoute(ordered, matrix)
	optimized := assembleRoute(nearestNeighborOrder(ordered, matrix, opts), matrix)

	return original, optimized, nil
}

// originalOrder sorts jobs by their scheduled time (unscheduled jobs last),
// preserving input order on ties. The first job of this order is the fixed
// route start.
func originalOrder(jobs []domain.Job) []domain.Job {
	ordered := append([]domain.Job(nil), jobs...)
	sort.SliceStable(ordered, func(i, k int) bool {
		a, b := ordered[i].ScheduledAt, ordered[k].ScheduledAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return ordered
}

type pairResult struct {
	key legKey
	est legEstimate
}

// buildLegMatrix prefetches travel estimates for every ordered job pair with
// bounded parallelism. Each pair is attempted against the oracle twice (one
// retry) under a per-call timeout before degrading to a haversine estimate;
// a single failing pair never aborts the whole optimization.
func buildLegMatrix(
	ctx context.Context,
	jobs []domain.Job,
	oracle ports.DistanceOracle,
	opts OptimizeOptions,
) (*legMatrix, error) {
	type pair struct {
		key      legKey
		from, to domain.Coordinates
	}

	pairs := make([]pair, 0, len(jobs)*(len(jobs)-1))
	for i, from := range jobs {
		for k, to := range jobs {
			if i == k {
				continue
			}
			pairs = append(pairs, pair{
				key:  legKey{from: from.ID, to: to.ID},
				from: *from.Coordinates,
				to:   *to.Coordinates,
			})
		}
	}

	matrix := &legMatrix{
		legs:      make(map[legKey]legEstimate, len(pairs)),
		pairCount: len(pairs),
	}

	// No oracle configured: the whole matrix is fallback estimates.
	if oracle == nil {
		for _, p := range pairs {
			matrix.legs[p.key] = fallbackEstimate(p.from, p.to, opts.FallbackSpeedMPH)
			matrix.fallbacks++
			metrics.FallbackLegs.Inc()
		}
		return matrix, nil
	}

	sem := make(chan struct{}, opts.MaxInFlight)
	resultsCh := make(chan pairResult, len(pairs))
	var wg sync.WaitGroup

	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		go func(p pair) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			resultsCh <- pairResult{key: p.key, est: resolvePair(ctx, oracle, p.from, p.to, opts)}
		}(p)
	}

	wg.Wait()
	close(resultsCh)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("optimize route: matrix prefetch aborted: %w", err)
	}

	for res := range resultsCh {
		matrix.legs[res.key] = res.est
		if res.est.Estimated {
			matrix.fallbacks++
		}
	}

	return matrix, nil
}

// resolvePair applies the oracle-or-fallback policy for one pair: oracle with
// a per-call timeout, one retry, then haversine.
func resolvePair(
	ctx context.Context,
	oracle ports.DistanceOracle,
	from, to domain.Coordinates,
	opts OptimizeOptions,
) legEstimate {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if ctx.Err() != nil {
			break
		}

		callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
		est, err := oracle.GetTravelTime(callCtx, from, to)
		cancel()

		if err == nil {
			metrics.OracleCalls.WithLabelValues("ok").Inc()
			return legEstimate{
				DistanceMeters:  est.DistanceMeters,
				DurationSeconds: est.DurationSeconds,
			}
		}

		lastErr = err
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.OracleCalls.WithLabelValues("timeout").Inc()
		} else {
			metrics.OracleCalls.WithLabelValues("error").Inc()
		}
	}

	if lastErr != nil {
		log.Debug().Err(lastErr).Msg("travel oracle failed for pair; using haversine estimate")
	}

	metrics.FallbackLegs.Inc()
	return fallbackEstimate(from, to, opts.FallbackSpeedMPH)
}

func fallbackEstimate(from, to domain.Coordinates, speedMPH float64) legEstimate {
	miles := from.HaversineMiles(to)
	return legEstimate{
		DistanceMeters:  domain.MilesToMeters(miles),
		DurationSeconds: miles / speedMPH * 3600,
		Estimated:       true,
	}
}

// nearestNeighborOrder reorders the interior stops greedily by minimum
// travel duration from the current position. The first stop is fixed; the
// original final stop participates like any interior stop unless
// FixLastStop is set. Ties break on the smallest job ID for determinism.
func nearestNeighborOrder(ordered []domain.Job, matrix *legMatrix, opts OptimizeOptions) []domain.Job {
	out := make([]domain.Job, 0, len(ordered))
	out = append(out, ordered[0])

	remaining := make(map[string]domain.Job, len(ordered)-1)
	for _, j := range ordered[1:] {
		remaining[j.ID] = j
	}

	var last *domain.Job
	if opts.FixLastStop && len(ordered) > 2 {
		tail := ordered[len(ordered)-1]
		last = &tail
		delete(remaining, tail.ID)
	}

	current := ordered[0]
	for len(remaining) > 0 {
		var best domain.Job
		bestDuration := math.MaxFloat64
		found := false

		// Select next stop by minimum travel duration (greedy step.)
		for id, candidate := range remaining {
			d := matrix.leg(current, candidate).DurationSeconds
			// Tie-breaker ensures deterministic ordering when durations are equal.
			if !found || d < bestDuration || (d == bestDuration && id < best.ID) {
				bestDuration = d
				best = candidate
				found = true
			}
		}

		out = append(out, best)
		delete(remaining, best.ID)
		current = best
	}

	if last != nil {
		out = append(out, *last)
	}

	return out
}

// assembleRoute sums leg metrics over consecutive stops, reusing the exact
// per-pair estimates the search ran on.
func assembleRoute(order []domain.Job, matrix *legMatrix) *domain.Route {
	route := &domain.Route{
		WorkerID: order[0].WorkerID,
		Jobs:     order,
		Legs:     make([]domain.RouteLeg, 0, len(order)-1),
	}

	for i := 0; i < len(order)-1; i++ {
		est := matrix.leg(order[i], order[i+1])
		route.Legs = append(route.Legs, domain.RouteLeg{
			FromJobID:       order[i].ID,
			ToJobID:         order[i+1].ID,
			DistanceMeters:  est.DistanceMeters,
			DurationSeconds: est.DurationSeconds,
			Estimated:       est.Estimated,
		})
		route.TotalDistanceMeters += est.DistanceMeters
		route.TotalDurationSeconds += est.DurationSeconds
	}

	return route
}
