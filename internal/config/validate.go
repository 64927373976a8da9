package config

import (
	"fmt"

	"github.com/iwvelando/vehicle-tco/pkg/constants"
)

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Problems that make a comparison impossible to evaluate
// are reported as errors when the comparison runs, not here.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.ActiveComparisons()) == 0 {
		warnings = append(warnings, "No active comparisons configured - nothing will be forecast")
	}

	seen := make(map[string]bool)
	for _, comparison := range conf.Comparisons {
		if seen[comparison.Name] {
			warnings = append(warnings, fmt.Sprintf("Comparison name '%s' is used more than once", comparison.Name))
		}
		seen[comparison.Name] = true

		if !comparison.Active {
			continue
		}

		usage := comparison.UsageFor(conf.Usage)
		if usage.OwnershipYears == 0 {
			warnings = append(warnings, fmt.Sprintf("Comparison '%s' has an ownership horizon of 0 years - no break-even will be computed", comparison.Name))
		}
		if usage.OwnershipYears > constants.MaxOwnershipYears {
			warnings = append(warnings, fmt.Sprintf("Comparison '%s' has an ownership horizon of %d years - at most %d are supported and the comparison will fail",
				comparison.Name, usage.OwnershipYears, constants.MaxOwnershipYears))
			continue
		}
		margin := comparison.MarginOrDefault()
		if margin > constants.MaxHorizonMargin {
			warnings = append(warnings, fmt.Sprintf("Comparison '%s' has a margin of %d years - at most %d are supported and the comparison will fail",
				comparison.Name, margin, constants.MaxHorizonMargin))
			continue
		}

		lastYear := usage.OwnershipYears + margin
		warnings = append(warnings, validateRisk(comparison.Name, "A", comparison.VehicleA.Risk, usage.AnnualDistance, lastYear)...)
		warnings = append(warnings, validateRisk(comparison.Name, "B", comparison.VehicleB.Risk, usage.AnnualDistance, lastYear)...)

		if comparison.Optimizer != nil {
			optimizerCopy := *comparison.Optimizer
			if err := optimizerCopy.Validate(); err != nil {
				warnings = append(warnings, fmt.Sprintf("Comparison '%s' optimizer is ignored: %v", comparison.Name, err))
			}
		}
	}

	return warnings
}

func validateRisk(comparison, label string, risk *RiskConfig, annualDistance float64, lastYear int) []string {
	if risk == nil {
		return nil
	}
	var warnings []string
	if risk.Cost == 0 {
		warnings = append(warnings, fmt.Sprintf("Comparison '%s' vehicle %s has a maintenance risk with no cost", comparison, label))
	}
	if risk.Force {
		return warnings
	}
	if risk.AfterYears == 0 && risk.AfterDistance == 0 {
		warnings = append(warnings, fmt.Sprintf("Comparison '%s' vehicle %s has a maintenance risk with no trigger - it will never apply", comparison, label))
		return warnings
	}
	yearsReachable := risk.AfterYears > 0 && lastYear > risk.AfterYears
	distanceReachable := risk.AfterDistance > 0 && annualDistance*float64(lastYear) > risk.AfterDistance
	if !yearsReachable && !distanceReachable {
		warnings = append(warnings, fmt.Sprintf("Comparison '%s' vehicle %s maintenance risk never triggers within the %d evaluated years", comparison, label, lastYear))
	}
	return warnings
}
