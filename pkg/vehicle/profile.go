package vehicle

import (
	"fmt"

	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/iwvelando/vehicle-tco/pkg/validation"
)

// Profile describes one vehicle configuration under comparison.
type Profile struct {
	Name          string           `json:"name,omitempty" yaml:"name,omitempty"`
	PurchasePrice float64          `json:"purchasePrice" yaml:"purchasePrice"`
	Class         ClassTag         `json:"class" yaml:"class"`
	AnnualTax     float64          `json:"annualTax" yaml:"annualTax"`
	Risk          *MaintenanceRisk `json:"risk,omitempty" yaml:"risk,omitempty"`
}

// Validate checks the profile against the catalog and returns its class.
func (p Profile) Validate(catalog Catalog) (Class, error) {
	if err := validation.Positive("purchase price", p.PurchasePrice); err != nil {
		return Class{}, err
	}
	if err := validation.NonNegative("annual tax", p.AnnualTax); err != nil {
		return Class{}, err
	}
	if p.Risk != nil {
		if err := p.Risk.Validate(); err != nil {
			return Class{}, err
		}
	}
	class, err := catalog.Lookup(p.Class)
	if err != nil {
		return Class{}, err
	}
	if err := class.Validate(); err != nil {
		return Class{}, err
	}
	return class, nil
}

// MaintenanceRisk is a one-time cost, such as a traction battery
// replacement, that applies from the first year its predicate holds.
type MaintenanceRisk struct {
	Name string  `json:"name,omitempty" yaml:"name,omitempty"`
	Cost float64 `json:"cost" yaml:"cost"`
	// AfterYears triggers the risk once elapsed years exceed it; 0 disables.
	AfterYears int `json:"afterYears,omitempty" yaml:"afterYears,omitempty"`
	// AfterDistance triggers the risk once cumulative distance exceeds it; 0 disables.
	AfterDistance float64 `json:"afterDistance,omitempty" yaml:"afterDistance,omitempty"`
	// Force includes the cost unconditionally.
	Force bool `json:"force,omitempty" yaml:"force,omitempty"`
}

// Validate checks the risk parameters.
func (r MaintenanceRisk) Validate() error {
	if err := validation.NonNegative("risk cost", r.Cost); err != nil {
		return err
	}
	if r.AfterYears < 0 {
		return validation.NewInvalidParameter("risk year threshold", r.AfterYears, "must not be negative")
	}
	return validation.NonNegative("risk distance threshold", r.AfterDistance)
}

// Triggered reports whether the risk applies after elapsedYears with
// cumulativeDistance travelled. Both inputs only grow over time, so once
// triggered a risk stays triggered.
func (r *MaintenanceRisk) Triggered(elapsedYears int, cumulativeDistance float64) bool {
	if r == nil {
		return false
	}
	if r.Force {
		return true
	}
	if r.AfterYears > 0 && elapsedYears > r.AfterYears {
		return true
	}
	return r.AfterDistance > 0 && cumulativeDistance > r.AfterDistance
}

// Usage is the driving profile shared by both compared vehicles.
type Usage struct {
	AnnualDistance float64 `json:"annualDistance" yaml:"annualDistance"`
	FuelUnitPrice  float64 `json:"fuelUnitPrice" yaml:"fuelUnitPrice"`
	OwnershipYears int     `json:"ownershipYears" yaml:"ownershipYears"`
}

// Validate checks the usage profile.
func (u Usage) Validate() error {
	if err := validation.Positive("annual distance", u.AnnualDistance); err != nil {
		return err
	}
	if err := validation.Positive("fuel unit price", u.FuelUnitPrice); err != nil {
		return err
	}
	if u.OwnershipYears < 0 {
		return validation.NewInvalidParameter("ownership years", u.OwnershipYears, "must not be negative")
	}
	if u.OwnershipYears > constants.MaxOwnershipYears {
		return validation.NewInvalidParameter("ownership years", u.OwnershipYears,
			fmt.Sprintf("must not exceed %d", constants.MaxOwnershipYears))
	}
	return nil
}

// CumulativeDistance returns the distance travelled after year elapsed years.
func (u Usage) CumulativeDistance(year int) float64 {
	return u.AnnualDistance * float64(year)
}
