package ports

import (
	"booking-route-service/internal/domain"
	"context"
)

// TravelEstimate is the travel distance and duration between two points.
type TravelEstimate struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// DistanceOracle is the contract for retrieving travel time between two
// coordinates. Implementations include a real mapping-provider client and a
// haversine-based estimator for tests and offline operation.
//
// Callers must treat per-pair failures as recoverable: the optimizer degrades
// to its own haversine fallback rather than propagating oracle errors.
type DistanceOracle interface {
	GetTravelTime(ctx context.Context, origin, dest domain.Coordinates) (TravelEstimate, error)
}
