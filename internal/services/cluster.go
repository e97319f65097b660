package services

import (
	"booking-route-service/internal/domain"
)

// SplitByCoordinates partitions jobs into those that can participate in
// geographic planning and those lacking coordinates. Callers report the
// unlocated remainder separately; it is never an error here.
func SplitByCoordinates(jobs []domain.Job) (located, unlocated []domain.Job) {
	for _, j := range jobs {
		if j.HasCoordinates() {
			located = append(located, j)
		} else {
			unlocated = append(unlocated, j)
		}
	}
	return located, unlocated
}

// ClusterJobs groups a day's jobs by geographic proximity using a greedy
// single pass: each unprocessed job seeds a cluster, then absorbs every
// later unprocessed job within radiusMiles of the seed.
//
// This is deliberately a single-link approximation, not optimal clustering.
// Clusters are an advisory reporting view (is optimization worthwhile?), so
// determinism and a single pass beat cluster quality here.
func ClusterJobs(jobs []domain.Job, radiusMiles float64) []domain.Cluster {
	located, _ := SplitByCoordinates(jobs)
	if len(located) == 0 {
		return nil
	}

	processed := make([]bool, len(located))
	clusters := make([]domain.Cluster, 0, len(located))

	for i, seed := range located {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []domain.Job{seed}
		for k := i + 1; k < len(located); k++ {
			if processed[k] {
				continue
			}

			// Absorption is measured against the seed, not the moving centroid.
			d := seed.Coordinates.HaversineMiles(*located[k].Coordinates)
			if d <= radiusMiles {
				members = append(members, located[k])
				processed[k] = true
			}
		}

		clusters = append(clusters, finishCluster(members))
	}

	return clusters
}

// finishCluster computes the centroid as the arithmetic mean of member
// coordinates and the radius as the maximum centroid-to-member distance.
func finishCluster(members []domain.Job) domain.Cluster {
	var sumLat, sumLon float64
	for _, m := range members {
		sumLat += m.Coordinates.Lat
		sumLon += m.Coordinates.Lon
	}

	centroid := domain.Coordinates{
		Lat: sumLat / float64(len(members)),
		Lon: sumLon / float64(len(members)),
	}

	radius := 0.0
	for _, m := range members {
		if d := centroid.HaversineMiles(*m.Coordinates); d > radius {
			radius = d
		}
	}

	return domain.Cluster{
		Jobs:        members,
		Centroid:    centroid,
		RadiusMiles: radius,
	}
}
