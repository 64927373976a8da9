// Package controller owns the mutable inputs of a running vehicle-tco
// session and re-runs the projection whenever they change.
package controller

import (
	"fmt"
	"sync"
	"time"

	"github.com/iwvelando/vehicle-tco/internal/config"
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
	"go.uber.org/zap"
)

// Inputs are the editable parameters of one comparison.
type Inputs struct {
	Name     string
	VehicleA vehicle.Profile
	VehicleB vehicle.Profile
	Usage    vehicle.Usage
	Margin   int
}

// Result is what the controller hands to its renderer after every
// successful evaluation.
type Result struct {
	Forecasts []forecast.Forecast
	Warnings  []string
	Generated time.Time
}

// Renderer presents a Result.
type Renderer interface {
	Render(Result) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Result) error

// Render calls f(result).
func (f RendererFunc) Render(result Result) error {
	return f(result)
}

// Controller re-evaluates comparisons on input changes. It is safe for
// concurrent use; updates are applied one at a time.
type Controller struct {
	mu       sync.Mutex
	logger   *zap.Logger
	renderer Renderer
	catalog  vehicle.Catalog
	inputs   []Inputs
	last     Result
}

// New creates a controller with no comparisons. A nil renderer discards
// results; call Reload to load comparisons.
func New(logger *zap.Logger, renderer Renderer) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = RendererFunc(func(Result) error { return nil })
	}
	return &Controller{
		logger:   logger,
		renderer: renderer,
		catalog:  vehicle.DefaultCatalog(),
	}
}

// Reload replaces every comparison with the active comparisons of conf and
// re-runs them. On failure the previous state is kept.
func (c *Controller) Reload(conf *config.Configuration) error {
	catalog, err := conf.Catalog()
	if err != nil {
		return err
	}

	var inputs []Inputs
	for _, comparison := range conf.ActiveComparisons() {
		a, b := comparison.Profiles()
		inputs = append(inputs, Inputs{
			Name:     comparison.Name,
			VehicleA: a,
			VehicleB: b,
			Usage:    comparison.UsageFor(conf.Usage),
			Margin:   comparison.MarginOrDefault(),
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	forecasts := make([]forecast.Forecast, 0, len(inputs))
	for _, in := range inputs {
		result, err := c.evaluate(catalog, in)
		if err != nil {
			return err
		}
		forecasts = append(forecasts, result)
	}

	c.catalog = catalog
	c.inputs = inputs
	c.last = Result{
		Forecasts: forecasts,
		Warnings:  conf.ValidateConfiguration(),
		Generated: time.Now(),
	}
	c.logger.Info("comparisons reloaded",
		zap.String("op", "controller.Reload"),
		zap.Int("comparisons", len(forecasts)),
	)
	return c.render()
}

// Update applies change to the inputs of the named comparison and re-runs
// it. Invalid inputs are reported to the caller and leave the previous
// inputs and result in place.
func (c *Controller) Update(name string, change func(*Inputs)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := -1
	for i := range c.inputs {
		if c.inputs[i].Name == name {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("unknown comparison %s", name)
	}

	updated := c.inputs[index].clone()
	change(&updated)
	if updated.Name != name {
		return fmt.Errorf("comparison %s cannot be renamed to %s", name, updated.Name)
	}

	result, err := c.evaluate(c.catalog, updated)
	if err != nil {
		c.logger.Warn("rejected input change",
			zap.String("op", "controller.Update"),
			zap.String("comparison", name),
			zap.Error(err),
		)
		return err
	}

	c.inputs[index] = updated
	forecasts := make([]forecast.Forecast, len(c.last.Forecasts))
	copy(forecasts, c.last.Forecasts)
	forecasts[index] = result
	c.last = Result{Forecasts: forecasts, Warnings: c.last.Warnings, Generated: time.Now()}

	return c.render()
}

// Inputs returns a copy of the current inputs of the named comparison.
func (c *Controller) Inputs(name string) (Inputs, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, in := range c.inputs {
		if in.Name == name {
			return in.clone(), true
		}
	}
	return Inputs{}, false
}

// Last returns the most recent successful result.
func (c *Controller) Last() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := c.last
	result.Forecasts = append([]forecast.Forecast(nil), c.last.Forecasts...)
	return result
}

func (c *Controller) evaluate(catalog vehicle.Catalog, in Inputs) (forecast.Forecast, error) {
	return forecast.Evaluate(c.logger, catalog, forecast.Request{
		Name:     in.Name,
		VehicleA: in.VehicleA,
		VehicleB: in.VehicleB,
		Usage:    in.Usage,
		Margin:   in.Margin,
	})
}

// render must be called with mu held.
func (c *Controller) render() error {
	if err := c.renderer.Render(c.last); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	return nil
}

// clone copies the inputs so risk pointers are not shared.
func (in Inputs) clone() Inputs {
	out := in
	if in.VehicleA.Risk != nil {
		risk := *in.VehicleA.Risk
		out.VehicleA.Risk = &risk
	}
	if in.VehicleB.Risk != nil {
		risk := *in.VehicleB.Risk
		out.VehicleB.Risk = &risk
	}
	return out
}
