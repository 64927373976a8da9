package config

import (
	"fmt"
	"strings"
)

const (
	OptimizerFieldPriceA         = "vehicleA.purchasePrice"
	OptimizerFieldPriceB         = "vehicleB.purchasePrice"
	OptimizerFieldTaxA           = "vehicleA.annualTax"
	OptimizerFieldTaxB           = "vehicleB.annualTax"
	OptimizerFieldAnnualDistance = "usage.annualDistance"
	OptimizerFieldFuelUnitPrice  = "usage.fuelUnitPrice"

	defaultTolerance     = 0.01
	defaultMaxIterations = 100
)

// OptimizerConfig asks for the value of one comparison input at which both
// vehicles cost the same at the ownership horizon.
type OptimizerConfig struct {
	Field         string   `yaml:"field" mapstructure:"field"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "vehiclea.purchaseprice", "pricea":
		return OptimizerFieldPriceA
	case "vehicleb.purchaseprice", "priceb":
		return OptimizerFieldPriceB
	case "vehiclea.annualtax", "taxa":
		return OptimizerFieldTaxA
	case "vehicleb.annualtax", "taxb":
		return OptimizerFieldTaxB
	case "usage.annualdistance", "annualdistance", "distance":
		return OptimizerFieldAnnualDistance
	case "usage.fuelunitprice", "fuelunitprice", "fuelprice":
		return OptimizerFieldFuelUnitPrice
	default:
		return trimmed
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	switch o.Field {
	case OptimizerFieldPriceA, OptimizerFieldPriceB, OptimizerFieldTaxA, OptimizerFieldTaxB,
		OptimizerFieldAnnualDistance, OptimizerFieldFuelUnitPrice:
	case "":
		return fmt.Errorf("optimizer requires a field")
	default:
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}

	if o.Min == nil {
		return fmt.Errorf("optimizer requires a minimum bound")
	}
	if o.Max == nil {
		return fmt.Errorf("optimizer requires a maximum bound")
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	if *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	if *o.Min == 0 && fieldMustBePositive(o.Field) {
		return fmt.Errorf("optimizer minimum for %s must be greater than 0", o.Field)
	}
	return nil
}

// fieldMustBePositive reports whether the engine rejects a zero value for field.
// Only the annual taxes may be zero.
func fieldMustBePositive(field string) bool {
	switch field {
	case OptimizerFieldTaxA, OptimizerFieldTaxB:
		return false
	default:
		return true
	}
}
