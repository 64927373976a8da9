// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
)

// FindForecast finds a forecast by comparison name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindForecast(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// ExampleComparison returns the reference gas versus hybrid comparison: a
// combustion car at 760,000 against a hybrid at 880,000 whose battery
// replacement applies after 8 years or 160,000 units of distance.
func ExampleComparison() (vehicle.Profile, vehicle.Profile, vehicle.Usage) {
	a := vehicle.Profile{
		Name:          "gas",
		PurchasePrice: 760000,
		Class:         vehicle.ClassCombustion,
		AnnualTax:     11920,
	}
	b := vehicle.Profile{
		Name:          "hybrid",
		PurchasePrice: 880000,
		Class:         vehicle.ClassHybrid,
		AnnualTax:     11920,
		Risk: &vehicle.MaintenanceRisk{
			Name:          "battery replacement",
			Cost:          49000,
			AfterYears:    8,
			AfterDistance: 160000,
		},
	}
	usage := vehicle.Usage{AnnualDistance: 15000, FuelUnitPrice: 31, OwnershipYears: 10}
	return a, b, usage
}
