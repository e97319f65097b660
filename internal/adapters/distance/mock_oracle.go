package distance

import (
	"context"
	"fmt"
	"sync"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
}

// MockOracle serves travel estimates from a fixed pair table and can be told
// to fail specific pairs or every call, for exercising fallback paths. All
// state is mutex-guarded, so failure injection may happen even while the
// optimizer's concurrent prefetch is issuing lookups.
type MockOracle struct {
	mu      sync.Mutex
	m       map[string]ports.TravelEstimate
	failing map[string]bool
	failAll bool
	calls   int
}

func pairKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", from.Lat, from.Lon, to.Lat, to.Lon)
}

func NewMockOracle(pairs []MockPair) *MockOracle {
	m := make(map[string]ports.TravelEstimate, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = ports.TravelEstimate{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockOracle{m: m, failing: map[string]bool{}}
}

// FailPair makes every lookup for the given pair return an error.
func (o *MockOracle) FailPair(from, to domain.Coordinates) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failing[pairKey(from, to)] = true
}

// FailAllCalls makes every subsequent lookup return an error.
func (o *MockOracle) FailAllCalls() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failAll = true
}

// CallCount reports how many lookups were issued.
func (o *MockOracle) CallCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func (o *MockOracle) GetTravelTime(ctx context.Context, origin, dest domain.Coordinates) (ports.TravelEstimate, error) {
	if err := ctx.Err(); err != nil {
		return ports.TravelEstimate{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++

	if o.failAll {
		return ports.TravelEstimate{}, fmt.Errorf("mock oracle: unavailable")
	}

	key := pairKey(origin, dest)
	if o.failing[key] {
		return ports.TravelEstimate{}, fmt.Errorf("mock oracle: pair %s rate limited", key)
	}

	r, ok := o.m[key]
	if !ok {
		return ports.TravelEstimate{}, fmt.Errorf("mock oracle: missing pair %s", key)
	}

	return r, nil
}
