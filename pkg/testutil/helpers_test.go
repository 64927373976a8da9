package testutil

import (
	"testing"

	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
)

func TestFindForecast(t *testing.T) {
	results := []forecast.Forecast{
		{Name: "gas vs hybrid", NameA: "gas"},
		{Name: "hybrid vs electric", NameA: "hybrid"},
		{Name: "gas vs hybrid", NameA: "duplicate"},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
		expectNameA string
	}{
		{
			name:        "Find existing forecast",
			searchName:  "hybrid vs electric",
			expectFound: true,
			expectNameA: "hybrid",
		},
		{
			name:        "Duplicate names return the first match",
			searchName:  "gas vs hybrid",
			expectFound: true,
			expectNameA: "gas",
		},
		{
			name:        "Search for non-existent forecast",
			searchName:  "Non-existent",
			expectFound: false,
		},
		{
			name:        "Case sensitive search",
			searchName:  "Gas vs Hybrid",
			expectFound: false,
		},
		{
			name:        "Partial name match",
			searchName:  "gas",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindForecast(results, tt.searchName)

			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindForecast() expected nil for '%s' but got '%s'", tt.searchName, result.Name)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindForecast() expected to find '%s' but got nil", tt.searchName)
			}
			if result.NameA != tt.expectNameA {
				t.Errorf("FindForecast() returned NameA '%s', expected '%s'", result.NameA, tt.expectNameA)
			}
		})
	}
}

func TestFindForecastReturnsPointer(t *testing.T) {
	results := []forecast.Forecast{{Name: "only"}}

	found := FindForecast(results, "only")
	if found != &results[0] {
		t.Errorf("FindForecast() should return pointer to original element")
	}
	if FindForecast(nil, "only") != nil {
		t.Errorf("FindForecast() with nil results should return nil")
	}
}

func TestExampleComparison(t *testing.T) {
	a, b, usage := ExampleComparison()

	if _, err := a.Validate(vehicle.DefaultCatalog()); err != nil {
		t.Errorf("vehicle A is invalid: %v", err)
	}
	if _, err := b.Validate(vehicle.DefaultCatalog()); err != nil {
		t.Errorf("vehicle B is invalid: %v", err)
	}
	if err := usage.Validate(); err != nil {
		t.Errorf("usage is invalid: %v", err)
	}
	if b.Risk == nil || b.Risk.Cost != 49000 {
		t.Errorf("vehicle B should carry the battery risk")
	}
}
