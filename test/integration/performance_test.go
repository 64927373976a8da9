package integration

import (
	"testing"
	"time"

	"github.com/iwvelando/vehicle-tco/internal/config"
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/pkg/tco"
	"github.com/iwvelando/vehicle-tco/pkg/testutil"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
	"go.uber.org/zap"
)

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	forecastTime := time.Since(start)

	t.Logf("Performance results:")
	t.Logf("  Config loading: %v", loadTime)
	t.Logf("  Forecast generation: %v", forecastTime)
	t.Logf("  Comparisons: %d", len(results))

	if forecastTime > 2*time.Second {
		t.Errorf("Forecast generation took too long: %v", forecastTime)
	}
}

// TestLongHorizonPerformance projects the longest supported ownership.
func TestLongHorizonPerformance(t *testing.T) {
	a, b, usage := testutil.ExampleComparison()
	usage.OwnershipYears = 50

	projector, err := tco.NewProjector(vehicle.DefaultCatalog(), tco.WithMargin(50))
	if err != nil {
		t.Fatalf("NewProjector failed: %v", err)
	}

	start := time.Now()
	for i := 0; i < 1000; i++ {
		if _, err := projector.Project(a, b, usage); err != nil {
			t.Fatalf("Project failed: %v", err)
		}
	}
	elapsed := time.Since(start)
	t.Logf("1000 projections over 100 years: %v", elapsed)

	if elapsed > 5*time.Second {
		t.Errorf("Projections took too long: %v", elapsed)
	}
}

func BenchmarkProject(b *testing.B) {
	vehicleA, vehicleB, usage := testutil.ExampleComparison()
	projector, err := tco.NewProjector(nil)
	if err != nil {
		b.Fatalf("NewProjector failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := projector.Project(vehicleA, vehicleB, usage); err != nil {
			b.Fatalf("Project failed: %v", err)
		}
	}
}
