package services

import (
	"booking-route-service/internal/domain"
)

// SavingsConfig names the conversion constants behind fuel and carbon
// estimates so deployments can tune them instead of living with inlined
// magic numbers.
type SavingsConfig struct {
	VehicleMPG        float64
	GasPricePerGallon float64
	CarbonLbsPerMile  float64
	LbsToKg           float64
}

// DefaultSavingsConfig returns the fleet-average assumptions.
func DefaultSavingsConfig() SavingsConfig {
	return SavingsConfig{
		VehicleMPG:        25,
		GasPricePerGallon: 3.50,
		CarbonLbsPerMile:  0.89,
		LbsToKg:           0.453592,
	}
}

func (c SavingsConfig) normalize() SavingsConfig {
	d := DefaultSavingsConfig()
	if c.VehicleMPG <= 0 {
		c.VehicleMPG = d.VehicleMPG
	}
	if c.GasPricePerGallon <= 0 {
		c.GasPricePerGallon = d.GasPricePerGallon
	}
	if c.CarbonLbsPerMile <= 0 {
		c.CarbonLbsPerMile = d.CarbonLbsPerMile
	}
	if c.LbsToKg <= 0 {
		c.LbsToKg = d.LbsToKg
	}
	return c
}

// ComputeSavings derives the time, distance, fuel, and carbon deltas between
// an original and an optimized route for the same job set.
//
// Deltas are clamped at zero: the heuristic can occasionally produce a worse
// route, and a non-improving result reports no savings rather than negative
// ones (callers typically discard such suggestions).
func ComputeSavings(original, optimized *domain.Route, cfg SavingsConfig) domain.Savings {
	cfg = cfg.normalize()

	timeSaved := original.TotalDurationSeconds - optimized.TotalDurationSeconds
	if timeSaved < 0 {
		timeSaved = 0
	}

	distSaved := original.TotalDistanceMeters - optimized.TotalDistanceMeters
	if distSaved < 0 {
		distSaved = 0
	}

	miles := domain.MetersToMiles(distSaved)
	gallons := miles / cfg.VehicleMPG
	carbonLbs := miles * cfg.CarbonLbsPerMile

	return domain.Savings{
		TimeSavedSeconds:    timeSaved,
		DistanceSavedMeters: distSaved,
		DistanceSavedMiles:  miles,
		FuelSavedGallons:    gallons,
		FuelSavedDollars:    gallons * cfg.GasPricePerGallon,
		CarbonSavedLbs:      carbonLbs,
		CarbonSavedKg:       carbonLbs * cfg.LbsToKg,
	}
}
