package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-route-service/internal/domain"
)

func jobAt(id string, lat, lon float64) domain.Job {
	return domain.Job{ID: id, Coordinates: &domain.Coordinates{Lat: lat, Lon: lon}}
}

func TestClusterJobsGreedyAbsorption(t *testing.T) {
	// Two downtown Phoenix jobs within a mile of each other, one in Tucson.
	jobs := []domain.Job{
		jobAt("phx-1", 33.4484, -112.0740),
		jobAt("phx-2", 33.4500, -112.0700),
		jobAt("tus-1", 32.2226, -110.9747),
	}

	clusters := ClusterJobs(jobs, 10)
	require.Len(t, clusters, 2)

	assert.Equal(t, 2, clusters[0].Size())
	assert.Equal(t, "phx-1", clusters[0].Jobs[0].ID)
	assert.Equal(t, "phx-2", clusters[0].Jobs[1].ID)

	assert.Equal(t, 1, clusters[1].Size())
	assert.Equal(t, "tus-1", clusters[1].Jobs[0].ID)
	assert.Zero(t, clusters[1].RadiusMiles)
}

func TestClusterJobsCentroidAndRadius(t *testing.T) {
	jobs := []domain.Job{
		jobAt("a", 33.40, -112.00),
		jobAt("b", 33.50, -112.00),
	}

	clusters := ClusterJobs(jobs, 20)
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.InDelta(t, 33.45, c.Centroid.Lat, 1e-9)
	assert.InDelta(t, -112.00, c.Centroid.Lon, 1e-9)

	// Radius is measured from the centroid, so it is half the pair distance.
	pair := jobs[0].Coordinates.HaversineMiles(*jobs[1].Coordinates)
	assert.InDelta(t, pair/2, c.RadiusMiles, 1e-6)
}

func TestClusterJobsSkipsUnlocatedJobs(t *testing.T) {
	jobs := []domain.Job{
		{ID: "no-coords", Location: "1901 W Madison St"},
		jobAt("phx-1", 33.4484, -112.0740),
	}

	clusters := ClusterJobs(jobs, 10)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"phx-1"}, clusterIDs(clusters[0]))

	located, unlocated := SplitByCoordinates(jobs)
	assert.Len(t, located, 1)
	require.Len(t, unlocated, 1)
	assert.Equal(t, "no-coords", unlocated[0].ID)
}

func TestClusterJobsMembershipStableUnderIrrelevantReorder(t *testing.T) {
	// Reordering the two far jobs does not change which jobs group together.
	base := []domain.Job{
		jobAt("phx-1", 33.4484, -112.0740),
		jobAt("tus-1", 32.2226, -110.9747),
		jobAt("flg-1", 35.1983, -111.6513),
	}
	swapped := []domain.Job{base[0], base[2], base[1]}

	a := ClusterJobs(base, 10)
	b := ClusterJobs(swapped, 10)

	require.Len(t, a, 3)
	require.Len(t, b, 3)

	gather := func(cs []domain.Cluster) map[string]bool {
		out := map[string]bool{}
		for _, c := range cs {
			for _, j := range c.Jobs {
				out[j.ID] = true
			}
		}
		return out
	}
	assert.Equal(t, gather(a), gather(b))
}

func clusterIDs(c domain.Cluster) []string {
	ids := make([]string, 0, len(c.Jobs))
	for _, j := range c.Jobs {
		ids = append(ids, j.ID)
	}
	return ids
}
