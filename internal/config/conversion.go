// Package config defines conversion utilities for configuration objects.
package config

import (
	"fmt"

	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
)

const (
	defaultNameA = "A"
	defaultNameB = "B"
)

// Catalog returns the default class catalog with the configured classes
// added or replaced.
func (conf *Configuration) Catalog() (vehicle.Catalog, error) {
	classes := make([]vehicle.Class, 0, len(conf.Classes))
	for _, class := range conf.Classes {
		classes = append(classes, class.ToClass())
	}
	catalog, err := vehicle.DefaultCatalog().With(classes...)
	if err != nil {
		return nil, fmt.Errorf("invalid class configuration: %w", err)
	}
	return catalog, nil
}

// ToClass converts a ClassConfig into a vehicle.Class.
func (class ClassConfig) ToClass() vehicle.Class {
	return vehicle.Class{
		Tag:                vehicle.ClassTag(class.Tag),
		FirstYearRetention: class.FirstYearRetention,
		DecayRate:          class.DecayRate,
		FuelEfficiency:     class.FuelEfficiency,
	}
}

// ToUsage converts a UsageConfig into a vehicle.Usage.
func (usage UsageConfig) ToUsage() vehicle.Usage {
	return vehicle.Usage{
		AnnualDistance: usage.AnnualDistance,
		FuelUnitPrice:  usage.FuelUnitPrice,
		OwnershipYears: usage.OwnershipYears,
	}
}

// ToProfile converts a VehicleConfig into a vehicle.Profile, naming it
// fallbackName when no name is configured.
func (v VehicleConfig) ToProfile(fallbackName string) vehicle.Profile {
	name := v.Name
	if name == "" {
		name = fallbackName
	}
	profile := vehicle.Profile{
		Name:          name,
		PurchasePrice: v.PurchasePrice,
		Class:         vehicle.ClassTag(v.Class),
		AnnualTax:     v.AnnualTax,
	}
	if v.Risk != nil {
		profile.Risk = &vehicle.MaintenanceRisk{
			Name:          v.Risk.Name,
			Cost:          v.Risk.Cost,
			AfterYears:    v.Risk.AfterYears,
			AfterDistance: v.Risk.AfterDistance,
			Force:         v.Risk.Force,
		}
	}
	return profile
}

// Profiles returns both vehicle profiles of the comparison.
func (c Comparison) Profiles() (vehicle.Profile, vehicle.Profile) {
	return c.VehicleA.ToProfile(defaultNameA), c.VehicleB.ToProfile(defaultNameB)
}

// UsageFor returns the shared usage with the comparison's override fields
// applied on top.
func (c Comparison) UsageFor(shared UsageConfig) vehicle.Usage {
	usage := shared.ToUsage()
	if c.Usage == nil {
		return usage
	}
	if c.Usage.AnnualDistance != nil {
		usage.AnnualDistance = *c.Usage.AnnualDistance
	}
	if c.Usage.FuelUnitPrice != nil {
		usage.FuelUnitPrice = *c.Usage.FuelUnitPrice
	}
	if c.Usage.OwnershipYears != nil {
		usage.OwnershipYears = *c.Usage.OwnershipYears
	}
	return usage
}

// MarginOrDefault returns the configured margin or the package default.
func (c Comparison) MarginOrDefault() int {
	if c.Margin != nil {
		return *c.Margin
	}
	return constants.DefaultHorizonMargin
}
