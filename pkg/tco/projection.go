// Package tco projects the accumulated total cost of ownership of two
// vehicles year by year and locates the fractional year at which their cost
// curves cross.
//
// The engine is pure: it performs no I/O, keeps no state between calls and
// never logs. A Projector may be shared between goroutines.
package tco

import (
	"fmt"

	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/iwvelando/vehicle-tco/pkg/depreciation"
	"github.com/iwvelando/vehicle-tco/pkg/validation"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
)

// CostSample is the accumulated cost of one vehicle after Year elapsed years.
type CostSample struct {
	Year               int     `json:"year"`
	CumulativeDistance float64 `json:"cumulativeDistance"`
	Residual           float64 `json:"residual"`
	Depreciation       float64 `json:"depreciation"`
	Fuel               float64 `json:"fuel"`
	Tax                float64 `json:"tax"`
	Risk               float64 `json:"risk"`
	RiskTriggered      bool    `json:"riskTriggered,omitempty"`
	Accumulated        float64 `json:"accumulated"`
}

// Comparison is the result of projecting two vehicles over the same usage.
type Comparison struct {
	// Horizon is the requested ownership horizon in years.
	Horizon int `json:"horizon"`
	// Margin is the number of years evaluated past Horizon.
	Margin   int            `json:"margin"`
	SeriesA  []CostSample   `json:"seriesA"`
	SeriesB  []CostSample   `json:"seriesB"`
	Crossing *CrossingPoint `json:"crossing,omitempty"`
	// SummaryA and SummaryB are the accumulated costs at exactly Horizon.
	SummaryA float64 `json:"summaryA"`
	SummaryB float64 `json:"summaryB"`
}

// Projector runs comparisons against a class catalog.
type Projector struct {
	catalog vehicle.Catalog
	margin  int
}

// Option configures a Projector.
type Option func(*Projector)

// WithMargin sets the number of years evaluated past the ownership horizon.
func WithMargin(years int) Option {
	return func(p *Projector) {
		p.margin = years
	}
}

// NewProjector creates a projector. A nil catalog selects the default classes.
func NewProjector(catalog vehicle.Catalog, opts ...Option) (*Projector, error) {
	if catalog == nil {
		catalog = vehicle.DefaultCatalog()
	}
	p := &Projector{catalog: catalog, margin: constants.DefaultHorizonMargin}
	for _, opt := range opts {
		opt(p)
	}
	if p.margin < 0 {
		return nil, validation.NewInvalidParameter("horizon margin", p.margin, "must not be negative")
	}
	if p.margin > constants.MaxHorizonMargin {
		return nil, validation.NewInvalidParameter("horizon margin", p.margin,
			fmt.Sprintf("must not exceed %d", constants.MaxHorizonMargin))
	}
	return p, nil
}

// Project compares vehicles a and b under usage with the default catalog
// and margin.
func Project(a, b vehicle.Profile, usage vehicle.Usage) (*Comparison, error) {
	p, err := NewProjector(nil)
	if err != nil {
		return nil, err
	}
	return p.Project(a, b, usage)
}

// Project builds both cost series, detects the first crossing and
// summarises both vehicles at the ownership horizon.
func (p *Projector) Project(a, b vehicle.Profile, usage vehicle.Usage) (*Comparison, error) {
	if err := usage.Validate(); err != nil {
		return nil, err
	}
	classA, err := a.Validate(p.catalog)
	if err != nil {
		return nil, fmt.Errorf("vehicle A: %w", err)
	}
	classB, err := b.Validate(p.catalog)
	if err != nil {
		return nil, fmt.Errorf("vehicle B: %w", err)
	}

	// A zero horizon leaves nothing to compare beyond the purchase itself.
	margin := p.margin
	if usage.OwnershipYears == 0 {
		margin = 0
	}
	lastYear := usage.OwnershipYears + margin

	seriesA, err := accumulate(a, classA, usage, lastYear)
	if err != nil {
		return nil, fmt.Errorf("vehicle A: %w", err)
	}
	seriesB, err := accumulate(b, classB, usage, lastYear)
	if err != nil {
		return nil, fmt.Errorf("vehicle B: %w", err)
	}

	return &Comparison{
		Horizon:  usage.OwnershipYears,
		Margin:   margin,
		SeriesA:  seriesA,
		SeriesB:  seriesB,
		Crossing: findCrossing(seriesA, seriesB),
		SummaryA: seriesA[usage.OwnershipYears].Accumulated,
		SummaryB: seriesB[usage.OwnershipYears].Accumulated,
	}, nil
}

func accumulate(profile vehicle.Profile, class vehicle.Class, usage vehicle.Usage, lastYear int) ([]CostSample, error) {
	curve := class.Curve()
	series := make([]CostSample, 0, lastYear+1)
	for year := 0; year <= lastYear; year++ {
		residual, err := depreciation.ResidualValue(profile.PurchasePrice, year, curve)
		if err != nil {
			return nil, err
		}
		distance := usage.CumulativeDistance(year)
		sample := CostSample{
			Year:               year,
			CumulativeDistance: distance,
			Residual:           residual,
			Depreciation:       profile.PurchasePrice - residual,
			Fuel:               distance / class.FuelEfficiency * usage.FuelUnitPrice,
			Tax:                profile.AnnualTax * float64(year),
		}
		// The risk cost is a step: charged once from the triggering year on.
		if profile.Risk.Triggered(year, distance) {
			sample.Risk = profile.Risk.Cost
			sample.RiskTriggered = true
		}
		sample.Accumulated = sample.Depreciation + sample.Fuel + sample.Tax + sample.Risk
		series = append(series, sample)
	}
	return series, nil
}

// LastYear returns the final evaluated year.
func (c *Comparison) LastYear() int {
	return len(c.SeriesA) - 1
}

// Series returns the cost series of side.
func (c *Comparison) Series(side Side) []CostSample {
	switch side {
	case SideA:
		return c.SeriesA
	case SideB:
		return c.SeriesB
	default:
		return nil
	}
}

// Breakdown returns the cost components of side at the ownership horizon.
func (c *Comparison) Breakdown(side Side) (CostSample, error) {
	series := c.Series(side)
	if c.Horizon >= len(series) {
		return CostSample{}, validation.NewInvalidParameter("side", side.String(), "no series for side")
	}
	return series[c.Horizon], nil
}

// Diff returns accumulated cost of A minus B at year, which must lie in
// [0, LastYear()]. Like slice indexing it panics outside that range; At is
// the checked accessor.
func (c *Comparison) Diff(year int) float64 {
	return c.SeriesA[year].Accumulated - c.SeriesB[year].Accumulated
}

// At linearly interpolates the accumulated cost of side at a fractional year.
func (c *Comparison) At(side Side, year float64) (float64, error) {
	series := c.Series(side)
	if len(series) == 0 {
		return 0, validation.NewInvalidParameter("side", side.String(), "no series for side")
	}
	return interpolate(series, year)
}
