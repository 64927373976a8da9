// Package constants provides shared constants for the vehicle-tco application.
package constants

// Projection constants
const (
	// DefaultHorizonMargin is the number of years evaluated past the ownership
	// horizon so that a break-even just beyond it can still be located.
	DefaultHorizonMargin = 3

	// ResidualScheduleYears is the length of the residual value table attached
	// to every forecast.
	ResidualScheduleYears = 10

	// MaxOwnershipYears bounds the ownership horizon accepted by the engine.
	MaxOwnershipYears = 50

	// MaxHorizonMargin bounds the years evaluated past the ownership horizon.
	MaxHorizonMargin = 50
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is prepended to configuration keys looked up in the environment
	EnvPrefix = "TCO"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// RequestIDHeader carries the per-request identifier
	RequestIDHeader = "X-Request-ID"
)

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
