package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"booking-route-service/internal/domain"
	"booking-route-service/internal/platform/obs"
	"booking-route-service/internal/ports"
)

// SQLTravelCache is a SQL-backed cache for pairwise travel estimates.
// Coordinates are rounded to five decimals (~1 meter) for the cache key,
// so repeated optimization runs over the same job set skip the mapping API
// entirely.
type SQLTravelCache struct {
	DB *sql.DB
}

func NewSQLTravelCache(db *sql.DB) *SQLTravelCache {
	return &SQLTravelCache{DB: db}
}

func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}

// Get fetches the cached estimate for one pair, reporting whether it existed.
func (s *SQLTravelCache) Get(
	ctx context.Context,
	origin, dest domain.Coordinates,
) (_ ports.TravelEstimate, _ bool, err error) {
	defer obs.Time(ctx, "travel.cache.Get")(&err)

	if s.DB == nil {
		return ports.TravelEstimate{}, false, errors.New("travel cache: db is nil")
	}

	q := `
	SELECT distance_meters, duration_seconds
	FROM travel_cache
	WHERE origin = $1 AND destination = $2;
	`

	var est ports.TravelEstimate
	err = s.DB.QueryRowContext(ctx, q, coordKey(origin), coordKey(dest)).
		Scan(&est.DistanceMeters, &est.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.TravelEstimate{}, false, nil
	}
	if err != nil {
		return ports.TravelEstimate{}, false, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}

	return est, true, nil
}

// Put stores one pair's estimate, overwriting any previous value.
func (s *SQLTravelCache) Put(
	ctx context.Context,
	origin, dest domain.Coordinates,
	est ports.TravelEstimate,
) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}

	q := `
	INSERT INTO travel_cache (origin, destination, distance_meters, duration_seconds)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`

	if _, err := s.DB.ExecContext(ctx, q, coordKey(origin), coordKey(dest), est.DistanceMeters, est.DurationSeconds); err != nil {
		return fmt.Errorf("insert travel cache pair %s -> %s: %w", coordKey(origin), coordKey(dest), err)
	}

	return nil
}
