package config

import (
	"strings"
	"testing"
)

func baseComparison(name string) Comparison {
	return Comparison{
		Name:     name,
		Active:   true,
		VehicleA: VehicleConfig{PurchasePrice: 760000, Class: "combustion", AnnualTax: 11920},
		VehicleB: VehicleConfig{PurchasePrice: 880000, Class: "hybrid", AnnualTax: 11920},
	}
}

func TestValidateConfiguration(t *testing.T) {
	usage := UsageConfig{AnnualDistance: 15000, FuelUnitPrice: 31, OwnershipYears: 10}

	unreachable := baseComparison("unreachable risk")
	unreachable.VehicleB.Risk = &RiskConfig{Cost: 49000, AfterYears: 20, AfterDistance: 500000}

	noTrigger := baseComparison("no trigger")
	noTrigger.VehicleB.Risk = &RiskConfig{Cost: 49000}

	forced := baseComparison("forced")
	forced.VehicleB.Risk = &RiskConfig{Cost: 49000, Force: true}

	free := baseComparison("free risk")
	free.VehicleA.Risk = &RiskConfig{Cost: 0, AfterYears: 2}

	zeroHorizon := baseComparison("zero horizon")
	zero := 0
	zeroHorizon.Usage = &UsageOverride{OwnershipYears: &zero}

	longHorizon := baseComparison("long horizon")
	tooLong := 51
	longHorizon.Usage = &UsageOverride{OwnershipYears: &tooLong}

	wideMargin := baseComparison("wide margin")
	wide := 51
	wideMargin.Margin = &wide

	inactive := baseComparison("inactive")
	inactive.Active = false
	inactive.VehicleB.Risk = &RiskConfig{Cost: 49000}

	tests := []struct {
		name            string
		comparisons     []Comparison
		expectWarnCount int
		expectContains  string
	}{
		{
			name:            "Valid configuration",
			comparisons:     []Comparison{baseComparison("ok")},
			expectWarnCount: 0,
		},
		{
			name:            "No comparisons",
			comparisons:     nil,
			expectWarnCount: 1,
			expectContains:  "No active comparisons",
		},
		{
			name:            "Only inactive comparisons are not inspected",
			comparisons:     []Comparison{inactive},
			expectWarnCount: 1,
			expectContains:  "No active comparisons",
		},
		{
			name:            "Duplicate names",
			comparisons:     []Comparison{baseComparison("dup"), baseComparison("dup")},
			expectWarnCount: 1,
			expectContains:  "more than once",
		},
		{
			name:            "Risk never triggers",
			comparisons:     []Comparison{unreachable},
			expectWarnCount: 1,
			expectContains:  "never triggers",
		},
		{
			name:            "Risk without trigger",
			comparisons:     []Comparison{noTrigger},
			expectWarnCount: 1,
			expectContains:  "no trigger",
		},
		{
			name:            "Forced risk needs no trigger",
			comparisons:     []Comparison{forced},
			expectWarnCount: 0,
		},
		{
			name:            "Risk without cost",
			comparisons:     []Comparison{free},
			expectWarnCount: 1,
			expectContains:  "no cost",
		},
		{
			name:            "Zero horizon",
			comparisons:     []Comparison{zeroHorizon},
			expectWarnCount: 1,
			expectContains:  "0 years",
		},
		{
			name:            "Horizon too long",
			comparisons:     []Comparison{longHorizon},
			expectWarnCount: 1,
			expectContains:  "at most 50 are supported",
		},
		{
			name:            "Margin too wide",
			comparisons:     []Comparison{wideMargin},
			expectWarnCount: 1,
			expectContains:  "margin of 51 years",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Configuration{Usage: usage, Comparisons: tt.comparisons}
			warnings := conf.ValidateConfiguration()

			if len(warnings) != tt.expectWarnCount {
				t.Errorf("ValidateConfiguration() returned %d warnings, expected %d: %v",
					len(warnings), tt.expectWarnCount, warnings)
			}
			if tt.expectContains != "" && !strings.Contains(strings.Join(warnings, "\n"), tt.expectContains) {
				t.Errorf("ValidateConfiguration() warnings %v do not mention %q", warnings, tt.expectContains)
			}
		})
	}
}

func TestValidateConfigurationTestFile(t *testing.T) {
	config, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings for the test configuration, got %v", warnings)
	}
}
