package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the engine.
	Registry = prometheus.NewRegistry()

	// OracleCalls counts travel-time oracle lookups by outcome (ok, error, timeout).
	OracleCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "travel_oracle_calls_total", Help: "Travel-time oracle calls by outcome."},
		[]string{"outcome"},
	)
	// FallbackLegs counts route legs that degraded to haversine estimates.
	FallbackLegs = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_fallback_legs_total", Help: "Route legs estimated via haversine fallback."},
	)
	// DegradedRoutes counts optimizations that ran with a fully unavailable oracle.
	DegradedRoutes = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_degraded_total", Help: "Optimizations completed entirely on fallback estimates."},
	)
	// Suggestions counts suggestion lifecycle events (created, accepted, rejected, below_threshold).
	Suggestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimization_suggestions_total", Help: "Optimization suggestion events."},
		[]string{"event"},
	)
)

var regOnce sync.Once

// RegisterDefault registers the engine collectors on the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(OracleCalls)
		Registry.MustRegister(FallbackLegs)
		Registry.MustRegister(DegradedRoutes)
		Registry.MustRegister(Suggestions)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
