package optimizer

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/vehicle-tco/internal/config"
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/pkg/testutil"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 {
	return &v
}

func exampleRequest() forecast.Request {
	a, b, usage := testutil.ExampleComparison()
	return forecast.Request{Name: "gas vs hybrid", VehicleA: a, VehicleB: b, Usage: usage, Margin: 3}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	runner, err := NewRunner(zap.NewNop(), &config.Configuration{})
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return runner
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name          string
		directive     config.OptimizerConfig
		expectValue   float64
		expectWithin  float64
		expectOrig    float64
		expectConverg bool
	}{
		{
			name:          "Hybrid purchase price",
			directive:     config.OptimizerConfig{Field: "priceB", Min: floatPtr(700000), Max: floatPtr(1100000)},
			expectValue:   895320.73,
			expectWithin:  0.05,
			expectOrig:    880000,
			expectConverg: true,
		},
		{
			name:          "Annual distance",
			directive:     config.OptimizerConfig{Field: config.OptimizerFieldAnnualDistance, Min: floatPtr(10000), Max: floatPtr(20000)},
			expectValue:   14050.37,
			expectWithin:  0.05,
			expectOrig:    15000,
			expectConverg: true,
		},
		{
			name:          "Hybrid tax from zero",
			directive:     config.OptimizerConfig{Field: "taxB", Min: floatPtr(0), Max: floatPtr(50000)},
			expectValue:   12971.38,
			expectWithin:  0.05,
			expectOrig:    11920,
			expectConverg: true,
		},
		{
			name:          "Fuel unit price",
			directive:     config.OptimizerConfig{Field: "fuelPrice", Min: floatPtr(1), Max: floatPtr(100), Tolerance: 0.0001},
			expectValue:   29.04,
			expectWithin:  0.01,
			expectOrig:    31,
			expectConverg: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := newTestRunner(t).Solve(exampleRequest(), tt.directive)
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if math.Abs(summary.Value-tt.expectValue) > tt.expectWithin {
				t.Errorf("Solve() value = %.4f, expected %.2f", summary.Value, tt.expectValue)
			}
			if summary.Original != tt.expectOrig {
				t.Errorf("Solve() original = %.2f, expected %.2f", summary.Original, tt.expectOrig)
			}
			if summary.Converged != tt.expectConverg {
				t.Errorf("Solve() converged = %v, expected %v (notes %v)", summary.Converged, tt.expectConverg, summary.Notes)
			}
			if summary.Iterations == 0 {
				t.Errorf("Solve() expected bisection iterations")
			}
			if math.Abs(summary.Gap) > 1 {
				t.Errorf("Solve() gap = %.4f, expected below 1", summary.Gap)
			}
		})
	}
}

func TestSolveNoSignChange(t *testing.T) {
	summary, err := newTestRunner(t).Solve(exampleRequest(), config.OptimizerConfig{
		Field: config.OptimizerFieldPriceB,
		Min:   floatPtr(500000),
		Max:   floatPtr(800000),
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if summary.Converged {
		t.Errorf("Solve() should not converge when costs never equalise")
	}
	if summary.Value != 800000 {
		t.Errorf("Solve() value = %.2f, expected the closest bound 800000", summary.Value)
	}
	if len(summary.Notes) != 1 || !strings.Contains(summary.Notes[0], "do not equalise") {
		t.Errorf("Solve() notes = %v", summary.Notes)
	}
}

func TestSolveRiskStep(t *testing.T) {
	req := exampleRequest()
	req.VehicleB.Risk = &vehicle.MaintenanceRisk{Name: "battery replacement", Cost: 49000, AfterDistance: 100000}

	summary, err := newTestRunner(t).Solve(req, config.OptimizerConfig{
		Field: config.OptimizerFieldAnnualDistance,
		Min:   floatPtr(9700),
		Max:   floatPtr(10300),
	})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if summary.Converged {
		t.Errorf("Solve() should not converge across a risk threshold")
	}
	if math.Abs(summary.Value-10000) > 0.05 {
		t.Errorf("Solve() value = %.4f, expected the 10000 threshold", summary.Value)
	}
	if len(summary.Notes) != 1 || !strings.Contains(summary.Notes[0], "cost gap jumps") {
		t.Errorf("Solve() notes = %v", summary.Notes)
	}
}

func TestSolveInvalidDirective(t *testing.T) {
	tests := []struct {
		name      string
		directive config.OptimizerConfig
	}{
		{name: "Unknown field", directive: config.OptimizerConfig{Field: "color", Min: floatPtr(0), Max: floatPtr(1)}},
		{name: "Missing bounds", directive: config.OptimizerConfig{Field: "priceA"}},
		{name: "Inverted bounds", directive: config.OptimizerConfig{Field: "priceA", Min: floatPtr(2), Max: floatPtr(1)}},
		{name: "Zero price bound", directive: config.OptimizerConfig{Field: "priceA", Min: floatPtr(0), Max: floatPtr(1000000)}},
		{name: "Zero distance bound", directive: config.OptimizerConfig{Field: "distance", Min: floatPtr(0), Max: floatPtr(50000)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newTestRunner(t).Solve(exampleRequest(), tt.directive); err == nil {
				t.Errorf("Solve() expected error")
			}
		})
	}
}

func TestRunAndApply(t *testing.T) {
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	conf.Comparisons[0].Optimizer = &config.OptimizerConfig{
		Field: "vehicleB.purchasePrice",
		Min:   floatPtr(700000),
		Max:   floatPtr(1100000),
	}
	conf.Comparisons[1].Optimizer = &config.OptimizerConfig{Field: "color"}

	runner, err := NewRunner(nil, conf)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Empty() || len(result.Summaries) != 1 {
		t.Fatalf("Run() summaries = %v, expected one", result.Summaries)
	}

	forecasts, err := forecast.GetForecast(nil, *conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	result.Apply(forecasts)

	if forecasts[0].Optimization == nil || forecasts[0].Optimization.Field != config.OptimizerFieldPriceB {
		t.Fatalf("Apply() did not attach the summary: %+v", forecasts[0].Optimization)
	}
	if forecasts[1].Optimization != nil {
		t.Errorf("Apply() attached a summary to a comparison without a valid directive")
	}
}

func TestRunSkipsZeroBoundDirective(t *testing.T) {
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	conf.Comparisons[0].Optimizer = &config.OptimizerConfig{
		Field: "distance",
		Min:   floatPtr(0),
		Max:   floatPtr(50000),
	}
	conf.Comparisons[1].Optimizer = &config.OptimizerConfig{
		Field: "priceB",
		Min:   floatPtr(700000),
		Max:   floatPtr(1100000),
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "optimizer is ignored") {
		t.Errorf("ValidateConfiguration() warnings = %v, expected one optimizer warning", warnings)
	}

	runner, err := NewRunner(nil, conf)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, ok := result.Summaries["gas vs hybrid"]; ok {
		t.Errorf("Run() solved a directive with a zero distance bound")
	}
	if _, ok := result.Summaries["short ownership"]; !ok {
		t.Errorf("Run() skipped a valid directive: %v", result.Summaries)
	}
}

func TestNewRunnerNilConfig(t *testing.T) {
	if _, err := NewRunner(nil, nil); err == nil {
		t.Errorf("NewRunner() expected error for nil configuration")
	}
}
