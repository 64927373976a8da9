// Package format renders engine values as human-readable strings. Amounts
// are unit-less: the engine performs no currency conversion, so the symbol
// is purely presentational.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if amount < 0 {
		return printer().Sprintf("-$%.2f", math.Abs(amount))
	}
	return printer().Sprintf("$%.2f", amount)
}

// WholeCurrency returns a currency string truncated to whole units (e.g., "$1,234").
func WholeCurrency(amount float64) string {
	whole := int64(math.Abs(amount))
	if amount < 0 && whole != 0 {
		return printer().Sprintf("-$%d", whole)
	}
	return printer().Sprintf("$%d", whole)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer().Sprintf("%.2f", amount)
}

// Years returns a fractional year with two decimals (e.g., "4.65").
func Years(years float64) string {
	return printer().Sprintf("%.2f", years)
}

// Percent returns a ratio as a whole percentage (e.g., 0.82 -> "82%").
func Percent(ratio float64) string {
	return printer().Sprintf("%.0f%%", ratio*100)
}
