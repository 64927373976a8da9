// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"

	"github.com/iwvelando/vehicle-tco/internal/config"
	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/iwvelando/vehicle-tco/pkg/depreciation"
	"github.com/iwvelando/vehicle-tco/pkg/format"
	"github.com/iwvelando/vehicle-tco/pkg/optimization"
	"github.com/iwvelando/vehicle-tco/pkg/tco"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific comparison.
type Forecast struct {
	Name       string
	NameA      string
	NameB      string
	Comparison *tco.Comparison
	Verdict    tco.Verdict
	// ResidualsA and ResidualsB are the yearly resale values of each vehicle.
	ResidualsA []depreciation.Point
	ResidualsB []depreciation.Point
	Notes      map[int][]string
	// Optimization is set when an equal-cost search ran for this comparison.
	Optimization *optimization.Summary
}

// Request is a single comparison ready for evaluation.
type Request struct {
	Name     string
	VehicleA vehicle.Profile
	VehicleB vehicle.Profile
	Usage    vehicle.Usage
	Margin   int
}

// GetForecast processes the Forecasts for all active Comparisons.
func GetForecast(logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := conf.Catalog()
	if err != nil {
		return nil, err
	}

	var results []Forecast
	for _, comparison := range conf.Comparisons {
		if !comparison.Active {
			logger.Debug(fmt.Sprintf("skipping comparison %s because it is inactive", comparison.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}

		a, b := comparison.Profiles()
		result, err := Evaluate(logger, catalog, Request{
			Name:     comparison.Name,
			VehicleA: a,
			VehicleB: b,
			Usage:    comparison.UsageFor(conf.Usage),
			Margin:   comparison.MarginOrDefault(),
		})
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// Evaluate projects a single comparison against catalog.
func Evaluate(logger *zap.Logger, catalog vehicle.Catalog, req Request) (Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	projector, err := tco.NewProjector(catalog, tco.WithMargin(req.Margin))
	if err != nil {
		return Forecast{}, fmt.Errorf("comparison %s: %w", req.Name, err)
	}
	comparison, err := projector.Project(req.VehicleA, req.VehicleB, req.Usage)
	if err != nil {
		return Forecast{}, fmt.Errorf("comparison %s: %w", req.Name, err)
	}

	result := Forecast{
		Name:       req.Name,
		NameA:      req.VehicleA.Name,
		NameB:      req.VehicleB.Name,
		Comparison: comparison,
		Verdict:    comparison.Verdict(),
		Notes:      make(map[int][]string),
	}
	if result.NameA == "" {
		result.NameA = tco.SideA.String()
	}
	if result.NameB == "" {
		result.NameB = tco.SideB.String()
	}

	result.ResidualsA, err = residuals(catalog, req.VehicleA)
	if err != nil {
		return Forecast{}, fmt.Errorf("comparison %s: vehicle A: %w", req.Name, err)
	}
	result.ResidualsB, err = residuals(catalog, req.VehicleB)
	if err != nil {
		return Forecast{}, fmt.Errorf("comparison %s: vehicle B: %w", req.Name, err)
	}

	result.noteRisk(tco.SideA, req.VehicleA)
	result.noteRisk(tco.SideB, req.VehicleB)
	if crossing := comparison.Crossing; crossing != nil {
		result.Notes[crossing.Bracket] = append(result.Notes[crossing.Bracket],
			fmt.Sprintf("break-even at year %s, %s cheaper from here", format.Years(crossing.FractionalYear), result.nameOf(crossing.CheaperAfter)))
	}

	fields := []zap.Field{
		zap.String("op", "forecast.Evaluate"),
		zap.String("comparison", req.Name),
		zap.Int("horizon", comparison.Horizon),
		zap.Int("margin", comparison.Margin),
		zap.String("outcome", string(result.Verdict.Outcome)),
		zap.Float64("summaryA", comparison.SummaryA),
		zap.Float64("summaryB", comparison.SummaryB),
	}
	if comparison.Crossing != nil {
		fields = append(fields, zap.Float64("breakEven", comparison.Crossing.FractionalYear))
	}
	logger.Debug("comparison projected", fields...)

	return result, nil
}

func residuals(catalog vehicle.Catalog, profile vehicle.Profile) ([]depreciation.Point, error) {
	class, err := catalog.Lookup(profile.Class)
	if err != nil {
		return nil, err
	}
	return depreciation.Schedule(profile.PurchasePrice, constants.ResidualScheduleYears, class.Curve())
}

// noteRisk marks the first year the maintenance risk of side is charged.
func (f *Forecast) noteRisk(side tco.Side, profile vehicle.Profile) {
	if profile.Risk == nil {
		return
	}
	for _, sample := range f.Comparison.Series(side) {
		if !sample.RiskTriggered {
			continue
		}
		name := profile.Risk.Name
		if name == "" {
			name = "maintenance risk"
		}
		f.Notes[sample.Year] = append(f.Notes[sample.Year],
			fmt.Sprintf("%s applies to %s (%s)", name, f.nameOf(side), format.Currency(profile.Risk.Cost)))
		return
	}
}

// nameOf returns the configured vehicle name of side.
func (f *Forecast) nameOf(side tco.Side) string {
	switch side {
	case tco.SideA:
		return f.NameA
	case tco.SideB:
		return f.NameB
	default:
		return side.String()
	}
}
