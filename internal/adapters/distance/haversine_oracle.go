package distance

import (
	"context"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/ports"
)

// DefaultAverageSpeedMPH is the assumed door-to-door driving speed when no
// routing provider is available.
const DefaultAverageSpeedMPH = 35.0

// HaversineOracle estimates travel by great-circle distance at a fixed
// average speed. It is the offline/test implementation of the oracle port
// and the same math the optimizer uses for its per-pair fallback, so a
// haversine-only run is fully self-consistent.
type HaversineOracle struct {
	SpeedMPH float64
}

func NewHaversineOracle() *HaversineOracle {
	return &HaversineOracle{SpeedMPH: DefaultAverageSpeedMPH}
}

func (o *HaversineOracle) GetTravelTime(ctx context.Context, origin, dest domain.Coordinates) (ports.TravelEstimate, error) {
	if err := ctx.Err(); err != nil {
		return ports.TravelEstimate{}, err
	}

	speed := o.SpeedMPH
	if speed <= 0 {
		speed = DefaultAverageSpeedMPH
	}

	miles := origin.HaversineMiles(dest)
	return ports.TravelEstimate{
		DistanceMeters:  domain.MilesToMeters(miles),
		DurationSeconds: miles / speed * 3600,
	}, nil
}
