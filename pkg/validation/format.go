// Package validation provides input validation utilities and the error
// taxonomy shared by the projection engine and its callers.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/vehicle-tco/pkg/constants"
)

// SupportedOutputFormats lists the renderers selectable from config or CLI.
var SupportedOutputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	for _, supported := range SupportedOutputFormats {
		if format == supported {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %q",
		strings.Join(SupportedOutputFormats, " or "), format)
}
