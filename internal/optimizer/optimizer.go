// Package optimizer searches comparison inputs for the value at which both
// vehicles cost the same at the ownership horizon.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/vehicle-tco/internal/config"
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/pkg/format"
	"github.com/iwvelando/vehicle-tco/pkg/mathutil"
	"github.com/iwvelando/vehicle-tco/pkg/optimization"
	"github.com/iwvelando/vehicle-tco/pkg/tco"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
	"go.uber.org/zap"
)

// equalCostTolerance is the largest horizon cost gap still reported as equal.
const equalCostTolerance = 1.0

type Runner struct {
	logger  *zap.Logger
	conf    *config.Configuration
	catalog vehicle.Catalog
}

// Result summarizes optimizer searches keyed by comparison name.
type Result struct {
	Summaries map[string]optimization.Summary
}

// Empty indicates whether any optimizer searches were run.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches optimizer summaries to the provided forecast results.
func (r Result) Apply(forecasts []forecast.Forecast) {
	for i := range forecasts {
		summary, ok := r.Summaries[forecasts[i].Name]
		if !ok {
			continue
		}
		forecasts[i].Optimization = &summary
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := conf.Catalog()
	if err != nil {
		return nil, err
	}

	return &Runner{logger: logger, conf: conf, catalog: catalog}, nil
}

// Run executes the optimizer directive of every active comparison.
// Directives that fail validation are skipped.
func (r *Runner) Run() (*Result, error) {
	result := &Result{Summaries: make(map[string]optimization.Summary)}

	for _, comparison := range r.conf.ActiveComparisons() {
		if comparison.Optimizer == nil {
			continue
		}
		directive := *comparison.Optimizer
		if err := directive.Validate(); err != nil {
			r.logger.Warn("skipping invalid optimizer directive",
				zap.String("op", "optimizer.Run"),
				zap.String("comparison", comparison.Name),
				zap.Error(err),
			)
			continue
		}

		a, b := comparison.Profiles()
		summary, err := r.Solve(forecast.Request{
			Name:     comparison.Name,
			VehicleA: a,
			VehicleB: b,
			Usage:    comparison.UsageFor(r.conf.Usage),
			Margin:   comparison.MarginOrDefault(),
		}, directive)
		if err != nil {
			return nil, err
		}
		result.Summaries[comparison.Name] = summary
	}

	return result, nil
}

// Solve bisects directive.Field between its bounds for the value at which
// the accumulated costs of both vehicles are equal at the horizon.
func (r *Runner) Solve(req forecast.Request, directive config.OptimizerConfig) (optimization.Summary, error) {
	if err := directive.Validate(); err != nil {
		return optimization.Summary{}, err
	}
	field, err := lookupField(directive.Field)
	if err != nil {
		return optimization.Summary{}, err
	}

	lower, upper := *directive.Min, *directive.Max
	summary := optimization.Summary{
		Comparison: req.Name,
		Field:      directive.Field,
		Original:   field.get(req),
		Min:        lower,
		Max:        upper,
	}

	gap := func(value float64) (float64, error) {
		candidate := req
		field.set(&candidate, value)
		projector, err := tco.NewProjector(r.catalog, tco.WithMargin(0))
		if err != nil {
			return 0, err
		}
		comparison, err := projector.Project(candidate.VehicleA, candidate.VehicleB, candidate.Usage)
		if err != nil {
			return 0, fmt.Errorf("optimizer evaluation of %s at %s failed: %w", directive.Field, format.NumericCurrency(value), err)
		}
		return comparison.SummaryA - comparison.SummaryB, nil
	}

	lowerGap, err := gap(lower)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperGap, err := gap(upper)
	if err != nil {
		return optimization.Summary{}, err
	}

	switch {
	case mathutil.WithinTolerance(lowerGap, 0, equalCostTolerance):
		return r.finish(summary, lower, lowerGap, 0, true), nil
	case mathutil.WithinTolerance(upperGap, 0, equalCostTolerance):
		return r.finish(summary, upper, upperGap, 0, true), nil
	case mathutil.Sign(lowerGap) == mathutil.Sign(upperGap):
		value, closest := lower, lowerGap
		if math.Abs(upperGap) < math.Abs(lowerGap) {
			value, closest = upper, upperGap
		}
		summary.Notes = append(summary.Notes, fmt.Sprintf("costs do not equalise for %s between %s and %s",
			directive.Field, format.NumericCurrency(lower), format.NumericCurrency(upper)))
		return r.finish(summary, value, closest, 0, false), nil
	}

	var mid, midGap float64
	iterations := 0
	for iterations < directive.MaxIterations {
		iterations++
		mid = (lower + upper) / 2
		midGap, err = gap(mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		if math.Abs(midGap) <= equalCostTolerance/100 || (upper-lower)/2 <= directive.Tolerance {
			break
		}
		if mathutil.Sign(midGap) == mathutil.Sign(lowerGap) {
			lower, lowerGap = mid, midGap
		} else {
			upper = mid
		}
	}

	converged := mathutil.WithinTolerance(midGap, 0, equalCostTolerance)
	if !converged {
		if iterations >= directive.MaxIterations {
			summary.Notes = append(summary.Notes, fmt.Sprintf("stopped after %d iterations", iterations))
		} else {
			// A maintenance risk threshold makes the cost gap jump.
			summary.Notes = append(summary.Notes, fmt.Sprintf("cost gap jumps by more than %s near %s",
				format.Currency(math.Abs(midGap)), format.NumericCurrency(mid)))
		}
	}
	return r.finish(summary, mid, midGap, iterations, converged), nil
}

func (r *Runner) finish(summary optimization.Summary, value, gap float64, iterations int, converged bool) optimization.Summary {
	summary.Value = mathutil.Round(value)
	summary.Gap = gap
	summary.Iterations = iterations
	summary.Converged = converged

	r.logger.Debug("optimizer search finished",
		zap.String("op", "optimizer.Solve"),
		zap.String("comparison", summary.Comparison),
		zap.String("field", summary.Field),
		zap.Float64("value", summary.Value),
		zap.Float64("gap", gap),
		zap.Int("iterations", iterations),
		zap.Bool("converged", converged),
	)
	return summary
}

type fieldAccessor struct {
	get func(forecast.Request) float64
	set func(*forecast.Request, float64)
}

func lookupField(field string) (fieldAccessor, error) {
	switch field {
	case config.OptimizerFieldPriceA:
		return fieldAccessor{
			get: func(req forecast.Request) float64 { return req.VehicleA.PurchasePrice },
			set: func(req *forecast.Request, v float64) { req.VehicleA.PurchasePrice = v },
		}, nil
	case config.OptimizerFieldPriceB:
		return fieldAccessor{
			get: func(req forecast.Request) float64 { return req.VehicleB.PurchasePrice },
			set: func(req *forecast.Request, v float64) { req.VehicleB.PurchasePrice = v },
		}, nil
	case config.OptimizerFieldTaxA:
		return fieldAccessor{
			get: func(req forecast.Request) float64 { return req.VehicleA.AnnualTax },
			set: func(req *forecast.Request, v float64) { req.VehicleA.AnnualTax = v },
		}, nil
	case config.OptimizerFieldTaxB:
		return fieldAccessor{
			get: func(req forecast.Request) float64 { return req.VehicleB.AnnualTax },
			set: func(req *forecast.Request, v float64) { req.VehicleB.AnnualTax = v },
		}, nil
	case config.OptimizerFieldAnnualDistance:
		return fieldAccessor{
			get: func(req forecast.Request) float64 { return req.Usage.AnnualDistance },
			set: func(req *forecast.Request, v float64) { req.Usage.AnnualDistance = v },
		}, nil
	case config.OptimizerFieldFuelUnitPrice:
		return fieldAccessor{
			get: func(req forecast.Request) float64 { return req.Usage.FuelUnitPrice },
			set: func(req *forecast.Request, v float64) { req.Usage.FuelUnitPrice = v },
		}, nil
	default:
		return fieldAccessor{}, fmt.Errorf("optimizer field %q is not supported", field)
	}
}
