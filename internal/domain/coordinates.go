package domain

import "math"

// Mean Earth radius in miles, used for all great-circle math in this engine.
const EarthRadiusMiles = 3959.0

const metersPerMile = 1609.344

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// HaversineMiles returns the great-circle distance to other in miles.
func (c Coordinates) HaversineMiles(other Coordinates) float64 {
	dLat := degreesToRadians(other.Lat - c.Lat)
	dLon := degreesToRadians(other.Lon - c.Lon)

	lat1 := degreesToRadians(c.Lat)
	lat2 := degreesToRadians(other.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	h := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * h
}

// HaversineMeters returns the great-circle distance to other in meters.
func (c Coordinates) HaversineMeters(other Coordinates) float64 {
	return c.HaversineMiles(other) * metersPerMile
}

func MilesToMeters(miles float64) float64 { return miles * metersPerMile }

func MetersToMiles(meters float64) float64 { return meters / metersPerMile }

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
