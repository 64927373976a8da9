package config

import "testing"

func TestCanonicalOptimizerField(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "priceA", expected: OptimizerFieldPriceA},
		{input: " VehicleB.PurchasePrice ", expected: OptimizerFieldPriceB},
		{input: "taxb", expected: OptimizerFieldTaxB},
		{input: "distance", expected: OptimizerFieldAnnualDistance},
		{input: "fuelPrice", expected: OptimizerFieldFuelUnitPrice},
		{input: "color", expected: "color"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CanonicalOptimizerField(tt.input); got != tt.expected {
				t.Errorf("CanonicalOptimizerField(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestOptimizerConfigValidate(t *testing.T) {
	bound := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		directive *OptimizerConfig
		expectErr bool
	}{
		{name: "Valid", directive: &OptimizerConfig{Field: "priceB", Min: bound(1), Max: bound(2)}},
		{name: "Nil", directive: nil, expectErr: true},
		{name: "Missing field", directive: &OptimizerConfig{Min: bound(1), Max: bound(2)}, expectErr: true},
		{name: "Unsupported field", directive: &OptimizerConfig{Field: "color", Min: bound(1), Max: bound(2)}, expectErr: true},
		{name: "Missing min", directive: &OptimizerConfig{Field: "priceB", Max: bound(2)}, expectErr: true},
		{name: "Missing max", directive: &OptimizerConfig{Field: "priceB", Min: bound(1)}, expectErr: true},
		{name: "Inverted", directive: &OptimizerConfig{Field: "priceB", Min: bound(2), Max: bound(1)}, expectErr: true},
		{name: "Negative", directive: &OptimizerConfig{Field: "priceB", Min: bound(-1), Max: bound(1)}, expectErr: true},
		{name: "Zero price", directive: &OptimizerConfig{Field: "priceA", Min: bound(0), Max: bound(1000000)}, expectErr: true},
		{name: "Zero distance", directive: &OptimizerConfig{Field: "distance", Min: bound(0), Max: bound(50000)}, expectErr: true},
		{name: "Zero fuel price", directive: &OptimizerConfig{Field: "fuelPrice", Min: bound(0), Max: bound(100)}, expectErr: true},
		{name: "Zero tax", directive: &OptimizerConfig{Field: "taxB", Min: bound(0), Max: bound(50000)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.directive.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestOptimizerConfigNormalize(t *testing.T) {
	directive := OptimizerConfig{Field: "distance"}
	directive.Normalize()

	if directive.Field != OptimizerFieldAnnualDistance {
		t.Errorf("Normalize() field = %q, expected %q", directive.Field, OptimizerFieldAnnualDistance)
	}
	if directive.Tolerance != defaultTolerance {
		t.Errorf("Normalize() tolerance = %v, expected %v", directive.Tolerance, defaultTolerance)
	}
	if directive.MaxIterations != defaultMaxIterations {
		t.Errorf("Normalize() maxIterations = %v, expected %v", directive.MaxIterations, defaultMaxIterations)
	}

	var missing *OptimizerConfig
	missing.Normalize()
}
