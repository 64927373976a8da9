// Package config defines the data structures related to configuration and
// includes functions for loading, validating and watching the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for vehicle-tco.
type Configuration struct {
	Logging     LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output      OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
	Classes     []ClassConfig `yaml:"classes,omitempty" mapstructure:"classes"`
	Usage       UsageConfig   `yaml:"usage" mapstructure:"usage"`
	Comparisons []Comparison  `yaml:"comparisons" mapstructure:"comparisons"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// ClassConfig overrides or adds a vehicle class.
type ClassConfig struct {
	Tag                string  `yaml:"tag" mapstructure:"tag"`
	FirstYearRetention float64 `yaml:"firstYearRetention" mapstructure:"firstYearRetention"`
	DecayRate          float64 `yaml:"decayRate" mapstructure:"decayRate"`
	FuelEfficiency     float64 `yaml:"fuelEfficiency" mapstructure:"fuelEfficiency"`
}

// UsageConfig is the driving profile shared by the compared vehicles.
type UsageConfig struct {
	AnnualDistance float64 `yaml:"annualDistance" mapstructure:"annualDistance"`
	FuelUnitPrice  float64 `yaml:"fuelUnitPrice" mapstructure:"fuelUnitPrice"`
	OwnershipYears int     `yaml:"ownershipYears" mapstructure:"ownershipYears"`
}

// UsageOverride replaces the fields of the shared usage profile that it sets.
type UsageOverride struct {
	AnnualDistance *float64 `yaml:"annualDistance,omitempty" mapstructure:"annualDistance"`
	FuelUnitPrice  *float64 `yaml:"fuelUnitPrice,omitempty" mapstructure:"fuelUnitPrice"`
	OwnershipYears *int     `yaml:"ownershipYears,omitempty" mapstructure:"ownershipYears"`
}

// Comparison pits two vehicles against each other.
type Comparison struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Active bool   `yaml:"active" mapstructure:"active"`
	// Margin overrides the number of years evaluated past the horizon.
	Margin *int `yaml:"margin,omitempty" mapstructure:"margin"`
	// Usage overrides individual shared usage fields for this comparison.
	Usage    *UsageOverride `yaml:"usage,omitempty" mapstructure:"usage"`
	VehicleA VehicleConfig  `yaml:"vehicleA" mapstructure:"vehicleA"`
	VehicleB VehicleConfig  `yaml:"vehicleB" mapstructure:"vehicleB"`
	// Optimizer optionally searches for the equal-cost value of one input.
	Optimizer *OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
}

// VehicleConfig describes one vehicle of a comparison.
type VehicleConfig struct {
	Name          string      `yaml:"name,omitempty" mapstructure:"name"`
	PurchasePrice float64     `yaml:"purchasePrice" mapstructure:"purchasePrice"`
	Class         string      `yaml:"class" mapstructure:"class"`
	AnnualTax     float64     `yaml:"annualTax" mapstructure:"annualTax"`
	Risk          *RiskConfig `yaml:"risk,omitempty" mapstructure:"risk"`
}

// RiskConfig describes a conditional one-time maintenance cost.
type RiskConfig struct {
	Name          string  `yaml:"name,omitempty" mapstructure:"name"`
	Cost          float64 `yaml:"cost" mapstructure:"cost"`
	AfterYears    int     `yaml:"afterYears,omitempty" mapstructure:"afterYears"`
	AfterDistance float64 `yaml:"afterDistance,omitempty" mapstructure:"afterDistance"`
	Force         bool    `yaml:"force,omitempty" mapstructure:"force"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys may be overridden from TCO_-prefixed
// environment variables, e.g. TCO_OUTPUT_FORMAT.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveComparisons returns the comparisons marked active, in file order.
func (conf *Configuration) ActiveComparisons() []Comparison {
	var active []Comparison
	for _, comparison := range conf.Comparisons {
		if comparison.Active {
			active = append(active, comparison)
		}
	}
	return active
}
