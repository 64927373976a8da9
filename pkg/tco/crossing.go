package tco

import (
	"math"

	"github.com/iwvelando/vehicle-tco/pkg/mathutil"
	"github.com/iwvelando/vehicle-tco/pkg/validation"
)

// Side identifies one of the two compared vehicles.
type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

// String returns "A", "B" or "none".
func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "none"
	}
}

// MarshalText encodes the side as its string form.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "A", "B" or "none".
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "A":
		*s = SideA
	case "B":
		*s = SideB
	case "none", "":
		*s = SideNone
	default:
		return validation.NewInvalidParameter("side", string(text), "must be A, B or none")
	}
	return nil
}

// Other returns the opposite side.
func (s Side) Other() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// CrossingPoint is where the accumulated cost curves of the two vehicles
// first meet.
type CrossingPoint struct {
	FractionalYear float64 `json:"fractionalYear"`
	// Cost is the interpolated accumulated cost at FractionalYear, taken
	// from the series that started out more expensive.
	Cost float64 `json:"cost"`
	// Bracket is the integer year y such that the crossing lies in [y-1, y].
	Bracket int `json:"bracket"`
	// CheaperAfter is the side that was more expensive before the crossing.
	CheaperAfter Side `json:"cheaperAfter"`
}

// findCrossing walks both series in lockstep and returns the first point at
// which the sign of A-B departs from its sign at year 0. Costs equal at
// year 0 within a cent have no leader and are never reported as a crossing.
func findCrossing(a, b []CostSample) *CrossingPoint {
	if len(a) < 2 || len(a) != len(b) {
		return nil
	}
	previous := a[0].Accumulated - b[0].Accumulated
	if mathutil.IsZero(previous) {
		return nil
	}
	initial := mathutil.Sign(previous)

	for year := 1; year < len(a); year++ {
		diff := a[year].Accumulated - b[year].Accumulated
		if mathutil.Sign(diff) == initial {
			previous = diff
			continue
		}

		fraction := math.Abs(previous) / (math.Abs(previous) + math.Abs(diff))
		expensive, cheaperAfter := b, SideB
		if initial > 0 {
			expensive, cheaperAfter = a, SideA
		}
		return &CrossingPoint{
			FractionalYear: float64(year-1) + fraction,
			Cost:           mathutil.Lerp(expensive[year-1].Accumulated, expensive[year].Accumulated, fraction),
			Bracket:        year,
			CheaperAfter:   cheaperAfter,
		}
	}
	return nil
}

func interpolate(series []CostSample, year float64) (float64, error) {
	last := float64(len(series) - 1)
	if math.IsNaN(year) || year < 0 || year > last {
		return 0, validation.NewInvalidParameter("fractional year", year, "outside the evaluated range")
	}
	lower := int(math.Floor(year))
	if lower == len(series)-1 {
		return series[lower].Accumulated, nil
	}
	return mathutil.Lerp(series[lower].Accumulated, series[lower+1].Accumulated, year-float64(lower)), nil
}
