package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"booking-route-service/internal/domain"
)

func TestComputeSavingsSelfComparisonIsZero(t *testing.T) {
	r := &domain.Route{TotalDistanceMeters: 32000, TotalDurationSeconds: 3600}

	s := ComputeSavings(r, r, DefaultSavingsConfig())

	assert.Zero(t, s.TimeSavedSeconds)
	assert.Zero(t, s.DistanceSavedMeters)
	assert.Zero(t, s.FuelSavedDollars)
	assert.Zero(t, s.CarbonSavedKg)
}

func TestComputeSavingsClampsNonImprovement(t *testing.T) {
	original := &domain.Route{TotalDistanceMeters: 10000, TotalDurationSeconds: 1000}
	worse := &domain.Route{TotalDistanceMeters: 12000, TotalDurationSeconds: 1400}

	s := ComputeSavings(original, worse, DefaultSavingsConfig())

	assert.Zero(t, s.TimeSavedSeconds, "a worse route must never report negative savings")
	assert.Zero(t, s.DistanceSavedMiles)
}

func TestComputeSavingsFuelAndCarbon(t *testing.T) {
	// 25 miles saved at the defaults: one gallon, $3.50, 22.25 lbs CO2.
	original := &domain.Route{TotalDistanceMeters: domain.MilesToMeters(40), TotalDurationSeconds: 7200}
	optimized := &domain.Route{TotalDistanceMeters: domain.MilesToMeters(15), TotalDurationSeconds: 5400}

	s := ComputeSavings(original, optimized, DefaultSavingsConfig())

	assert.InDelta(t, 1800, s.TimeSavedSeconds, 1e-9)
	assert.InDelta(t, 25, s.DistanceSavedMiles, 1e-9)
	assert.InDelta(t, 1.0, s.FuelSavedGallons, 1e-9)
	assert.InDelta(t, 3.50, s.FuelSavedDollars, 1e-9)
	assert.InDelta(t, 22.25, s.CarbonSavedLbs, 1e-9)
	assert.InDelta(t, 22.25*0.453592, s.CarbonSavedKg, 1e-9)
}

func TestComputeSavingsConfigurableConstants(t *testing.T) {
	original := &domain.Route{TotalDistanceMeters: domain.MilesToMeters(10)}
	optimized := &domain.Route{}

	s := ComputeSavings(original, optimized, SavingsConfig{
		VehicleMPG:        10,
		GasPricePerGallon: 5,
		CarbonLbsPerMile:  1,
		LbsToKg:           0.5,
	})

	assert.InDelta(t, 1.0, s.FuelSavedGallons, 1e-9)
	assert.InDelta(t, 5.0, s.FuelSavedDollars, 1e-9)
	assert.InDelta(t, 10.0, s.CarbonSavedLbs, 1e-9)
	assert.InDelta(t, 5.0, s.CarbonSavedKg, 1e-9)
}
