package domain

// RouteLeg describes the travel between two consecutive stops on a route.
// Estimated records whether the metrics came from the travel-time oracle or
// from the haversine fallback; totals computed from legs therefore always
// agree with whatever source ordered the route.
type RouteLeg struct {
	FromJobID       string
	ToJobID         string
	DistanceMeters  float64
	DurationSeconds float64
	Estimated       bool
}

// Route is an ordered visiting sequence of jobs for one worker on one
// calendar day, plus aggregate travel metrics.
//
// A Route is immutable once computed: optimization produces a new Route
// rather than reordering an existing one in place.
type Route struct {
	WorkerID             string
	Jobs                 []Job
	Legs                 []RouteLeg
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
}

// TotalDistanceMiles converts the aggregate distance for savings reporting.
func (r *Route) TotalDistanceMiles() float64 {
	return MetersToMiles(r.TotalDistanceMeters)
}

// EstimatedLegCount returns how many legs fell back to haversine estimates.
// A route where every leg is estimated ran with a fully unavailable oracle.
func (r *Route) EstimatedLegCount() int {
	n := 0
	for _, leg := range r.Legs {
		if leg.Estimated {
			n++
		}
	}
	return n
}

// JobIDs returns the visiting order as identifiers, mostly for logs and tests.
func (r *Route) JobIDs() []string {
	ids := make([]string, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		ids = append(ids, j.ID)
	}
	return ids
}
