// Package vehicle defines the inputs of a TCO comparison: vehicle classes,
// vehicle profiles, maintenance risks and the usage profile shared by both
// compared vehicles.
package vehicle

import (
	"sort"
	"strings"

	"github.com/iwvelando/vehicle-tco/pkg/depreciation"
	"github.com/iwvelando/vehicle-tco/pkg/validation"
)

// ClassTag identifies a vehicle class.
type ClassTag string

const (
	ClassCombustion ClassTag = "combustion"
	ClassHybrid     ClassTag = "hybrid"
)

// String returns the string representation of the class tag.
func (t ClassTag) String() string {
	return string(t)
}

// Normalize lowercases and trims a tag so config values match catalog keys.
func (t ClassTag) Normalize() ClassTag {
	return ClassTag(strings.ToLower(strings.TrimSpace(string(t))))
}

// Class binds a depreciation curve and a fuel efficiency to a class tag.
type Class struct {
	Tag                ClassTag `json:"tag" yaml:"tag"`
	FirstYearRetention float64  `json:"firstYearRetention" yaml:"firstYearRetention"`
	DecayRate          float64  `json:"decayRate" yaml:"decayRate"`
	// FuelEfficiency is distance travelled per unit of fuel.
	FuelEfficiency float64 `json:"fuelEfficiency" yaml:"fuelEfficiency"`
}

// Curve returns the class depreciation curve.
func (c Class) Curve() depreciation.Curve {
	return depreciation.Curve{FirstYearRetention: c.FirstYearRetention, DecayRate: c.DecayRate}
}

// Validate checks the class constants.
func (c Class) Validate() error {
	if c.Tag.Normalize() == "" {
		return validation.NewInvalidParameter("class tag", nil, "must not be empty")
	}
	if err := c.Curve().Validate(); err != nil {
		return err
	}
	return validation.Positive("fuel efficiency", c.FuelEfficiency)
}

// Catalog maps class tags to their constants.
type Catalog map[ClassTag]Class

// DefaultCatalog returns the built-in classes.
func DefaultCatalog() Catalog {
	return Catalog{
		ClassCombustion: {Tag: ClassCombustion, FirstYearRetention: 0.82, DecayRate: 0.096, FuelEfficiency: 12},
		ClassHybrid:     {Tag: ClassHybrid, FirstYearRetention: 0.80, DecayRate: 0.104, FuelEfficiency: 21},
	}
}

// With returns a copy of the catalog with the given classes added or replaced.
func (c Catalog) With(classes ...Class) (Catalog, error) {
	merged := make(Catalog, len(c)+len(classes))
	for tag, class := range c {
		merged[tag] = class
	}
	for _, class := range classes {
		class.Tag = class.Tag.Normalize()
		if err := class.Validate(); err != nil {
			return nil, err
		}
		merged[class.Tag] = class
	}
	return merged, nil
}

// Lookup resolves a tag to its class.
func (c Catalog) Lookup(tag ClassTag) (Class, error) {
	class, ok := c[tag.Normalize()]
	if !ok {
		return Class{}, validation.NewInvalidParameter("class tag", string(tag), "unrecognized class")
	}
	return class, nil
}

// Tags returns the catalog tags in sorted order.
func (c Catalog) Tags() []ClassTag {
	tags := make([]ClassTag, 0, len(c))
	for tag := range c {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// ResidualValue returns the resale value of a vehicle of class tag bought
// for price after year elapsed years.
func (c Catalog) ResidualValue(price float64, year int, tag ClassTag) (float64, error) {
	class, err := c.Lookup(tag)
	if err != nil {
		return 0, err
	}
	return depreciation.ResidualValue(price, year, class.Curve())
}
