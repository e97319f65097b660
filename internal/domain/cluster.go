package domain

// Cluster is a reporting-only grouping of geographically close jobs.
//
// Clusters are recomputed on demand and never persisted: they inform whether
// optimization is worth running, they do not determine schedules.
type Cluster struct {
	Jobs        []Job
	Centroid    Coordinates
	RadiusMiles float64
}

// Size returns the member count. A Cluster is never empty by construction.
func (c Cluster) Size() int { return len(c.Jobs) }
