// Package depreciation models the resale value of a vehicle over elapsed
// ownership years.
//
// The curve has two regimes: a drive-off step that applies for years 0 and 1,
// followed by continuous exponential decay anchored at the end of year 1.
package depreciation

import (
	"math"

	"github.com/iwvelando/vehicle-tco/pkg/validation"
)

// Curve holds the two constants that parameterise a residual value curve.
type Curve struct {
	// FirstYearRetention is the fraction of the price retained after the
	// drive-off step, in (0,1).
	FirstYearRetention float64 `json:"firstYearRetention" yaml:"firstYearRetention"`
	// DecayRate is the continuous yearly decay rate applied after year 1.
	DecayRate float64 `json:"decayRate" yaml:"decayRate"`
}

// Point is one row of a residual value schedule.
type Point struct {
	Year  int     `json:"year"`
	Rate  float64 `json:"rate"`
	Value float64 `json:"value"`
}

// Validate checks the curve constants.
func (c Curve) Validate() error {
	if c.FirstYearRetention <= 0 || c.FirstYearRetention >= 1 {
		return validation.NewInvalidParameter("first year retention", c.FirstYearRetention, "must be between 0 and 1 exclusive")
	}
	if c.DecayRate <= 0 {
		return validation.NewInvalidParameter("decay rate", c.DecayRate, "must be positive")
	}
	return nil
}

// RetentionRate returns the fraction of the purchase price retained after
// year elapsed years.
func RetentionRate(year int, curve Curve) (float64, error) {
	if year < 0 {
		return 0, validation.NewInvalidParameter("year", year, "must not be negative")
	}
	if err := curve.Validate(); err != nil {
		return 0, err
	}
	return retention(year, curve), nil
}

// ResidualValue returns the resale value of a vehicle bought for price after
// year elapsed years.
func ResidualValue(price float64, year int, curve Curve) (float64, error) {
	if err := validation.Positive("purchase price", price); err != nil {
		return 0, err
	}
	rate, err := RetentionRate(year, curve)
	if err != nil {
		return 0, err
	}
	return price * rate, nil
}

// Schedule returns the residual value for each year from 1 through years.
func Schedule(price float64, years int, curve Curve) ([]Point, error) {
	if years < 0 {
		return nil, validation.NewInvalidParameter("schedule years", years, "must not be negative")
	}
	points := make([]Point, 0, years)
	for year := 1; year <= years; year++ {
		value, err := ResidualValue(price, year, curve)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Year: year, Rate: retention(year, curve), Value: value})
	}
	return points, nil
}

func retention(year int, curve Curve) float64 {
	if year <= 1 {
		return curve.FirstYearRetention
	}
	return curve.FirstYearRetention * math.Exp(-curve.DecayRate*float64(year-1))
}
