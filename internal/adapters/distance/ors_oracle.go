package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"booking-route-service/internal/adapters/cache"
	"booking-route-service/internal/domain"
	"booking-route-service/internal/platform/obs"
	"booking-route-service/internal/ports"
)

// ORSOracle implements DistanceOracle using the OpenRouteService matrix
// endpoint. Jobs arrive pre-geocoded, so the oracle works purely on
// coordinates.
//
// It coordinates:
//   - A client-side rate limiter gating every outbound attempt
//   - A persistent travel-estimate cache
//   - External API calls with retry/backoff
//
// The oracle is safe for concurrent use.
type ORSOracle struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	limiter *rate.Limiter
	cache   *cache.SQLTravelCache
}

// NewORSOracle builds the provider. travelCache may be nil to disable
// persistent caching; callsPerSecond bounds outbound request rate.
func NewORSOracle(apiKey string, travelCache *cache.SQLTravelCache, callsPerSecond float64) (*ORSOracle, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if callsPerSecond <= 0 {
		callsPerSecond = 5
	}

	return &ORSOracle{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		limiter: rate.NewLimiter(rate.Limit(callsPerSecond), 1),
		cache:   travelCache,
	}, nil
}

// GetTravelTime returns the driving distance and duration for one pair,
// consulting the persistent cache before issuing an API call.
func (o *ORSOracle) GetTravelTime(
	ctx context.Context,
	origin, dest domain.Coordinates,
) (_ ports.TravelEstimate, err error) {
	defer obs.Time(ctx, "ors.GetTravelTime")(&err)

	if o.cache != nil {
		est, ok, err := o.cache.Get(ctx, origin, dest)
		if err != nil {
			return ports.TravelEstimate{}, fmt.Errorf("ORS travel cache: %w", err)
		}
		if ok {
			return est, nil
		}
	}

	est, err := o.fetchMatrixCell(ctx, origin, dest)
	if err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("fetching matrix cell: %w", err)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, origin, dest, est); err != nil {
			log.Warn().Err(err).Msg("travel cache write failed")
		}
	}

	return est, nil
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrixCell retrieves distance and duration for a single origin ->
// destination pair using the OpenRouteService matrix endpoint.
func (o *ORSOracle) fetchMatrixCell(
	ctx context.Context,
	origin, dest domain.Coordinates,
) (ports.TravelEstimate, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	bodyObj := matrixRequest{
		Locations:    [][]float64{origin.CoordsToList(), dest.CoordsToList()},
		Destinations: []int{1},
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return ports.TravelEstimate{}, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}
	if len(mr.Distances[0]) != 1 || len(mr.Durations[0]) != 1 {
		return ports.TravelEstimate{}, fmt.Errorf(
			"expected 1 destination column; got distances=%d durations=%d",
			len(mr.Distances[0]), len(mr.Durations[0]),
		)
	}

	metersPtr := mr.Distances[0][0]
	secondsPtr := mr.Durations[0][0]
	if metersPtr == nil || secondsPtr == nil {
		return ports.TravelEstimate{}, errors.New("matrix returned invalid metrics for pair")
	}

	return ports.TravelEstimate{
		DistanceMeters:  *metersPtr,
		DurationSeconds: *secondsPtr,
	}, nil
}
