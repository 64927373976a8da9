package tco

import (
	"math"

	"github.com/iwvelando/vehicle-tco/pkg/mathutil"
)

// Outcome classifies a comparison for presentation.
type Outcome string

const (
	// OutcomeBreakEven means the curves cross within the ownership horizon.
	OutcomeBreakEven Outcome = "break-even"
	// OutcomeBreakEvenBeyondHorizon means the curves cross only inside the
	// margin evaluated past the horizon.
	OutcomeBreakEvenBeyondHorizon Outcome = "break-even-beyond-horizon"
	// OutcomeNoBreakEven means the curves never cross over the evaluated
	// range. Either the vehicle cheaper at year 0 stays cheaper, or both
	// start level (LeaderAtStart is SideNone) and drift apart.
	OutcomeNoBreakEven Outcome = "no-break-even"
	// OutcomeIdentical means both vehicles cost the same at year 0 and at
	// the horizon.
	OutcomeIdentical Outcome = "identical"
)

// Verdict summarises which vehicle to prefer.
type Verdict struct {
	Outcome Outcome `json:"outcome"`
	// Winner is the side cheaper at the ownership horizon.
	Winner Side `json:"winner"`
	// Savings is the absolute summary difference at the horizon.
	Savings float64 `json:"savings"`
	// LeaderAtStart is the side cheaper at year 0, SideNone when both are
	// within a cent. A crossing is only reported when it is set.
	LeaderAtStart Side `json:"leaderAtStart"`
}

// Verdict derives the presentation summary of the comparison.
func (c *Comparison) Verdict() Verdict {
	v := Verdict{
		Winner:        cheaper(c.SummaryA - c.SummaryB),
		Savings:       math.Abs(c.SummaryA - c.SummaryB),
		LeaderAtStart: cheaper(c.Diff(0)),
	}

	switch {
	case c.Crossing != nil && c.Crossing.FractionalYear <= float64(c.Horizon):
		v.Outcome = OutcomeBreakEven
	case c.Crossing != nil:
		v.Outcome = OutcomeBreakEvenBeyondHorizon
	case v.LeaderAtStart == SideNone && v.Winner == SideNone:
		v.Outcome = OutcomeIdentical
	default:
		v.Outcome = OutcomeNoBreakEven
	}
	return v
}

func cheaper(diff float64) Side {
	if mathutil.IsZero(diff) {
		return SideNone
	}
	if diff < 0 {
		return SideA
	}
	return SideB
}
