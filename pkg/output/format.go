// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iwvelando/vehicle-tco/internal/controller"
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/iwvelando/vehicle-tco/pkg/format"
	"github.com/iwvelando/vehicle-tco/pkg/optimization"
	"github.com/iwvelando/vehicle-tco/pkg/tco"
)

// Write renders results in the given output format.
func Write(w io.Writer, outputFormat string, results []forecast.Forecast) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []forecast.Forecast) error {
	for i, result := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyComparison(w, result); err != nil {
			return err
		}
	}
	return nil
}

func prettyComparison(w io.Writer, result forecast.Forecast) error {
	comparison := result.Comparison

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "--- Results for comparison %s ---\n", result.Name)
	fmt.Fprintf(tw, "Year\t| %s\t| %s\t| Difference\t| Notes\n", result.NameA, result.NameB)
	fmt.Fprintf(tw, "____\t| %s\t| %s\t| __________\t| _____\n", underline(result.NameA), underline(result.NameB))
	for year := range comparison.SeriesA {
		label := strconv.Itoa(year)
		if year > comparison.Horizon {
			label += "*"
		}
		fmt.Fprintf(tw, "%s\t| %s\t| %s\t| %s\t| %s\n",
			label,
			format.Currency(comparison.SeriesA[year].Accumulated),
			format.Currency(comparison.SeriesB[year].Accumulated),
			format.Currency(comparison.Diff(year)),
			strings.Join(result.Notes[year], ", "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if comparison.Margin > 0 {
		fmt.Fprintf(w, "* beyond the %d-year ownership horizon\n", comparison.Horizon)
	}

	fmt.Fprintf(w, "\nCost breakdown at year %d:\n", comparison.Horizon)
	breakdownA, err := comparison.Breakdown(tco.SideA)
	if err != nil {
		return err
	}
	breakdownB, err := comparison.Breakdown(tco.SideB)
	if err != nil {
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Component\t| %s\t| %s\n", result.NameA, result.NameB)
	rows := []struct {
		label string
		a, b  float64
	}{
		{"Depreciation", breakdownA.Depreciation, breakdownB.Depreciation},
		{"Fuel", breakdownA.Fuel, breakdownB.Fuel},
		{"Tax", breakdownA.Tax, breakdownB.Tax},
		{"Maintenance risk", breakdownA.Risk, breakdownB.Risk},
		{"Total", breakdownA.Accumulated, breakdownB.Accumulated},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t| %s\t| %s\n", row.label, format.Currency(row.a), format.Currency(row.b))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := prettyResiduals(w, result); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nVerdict: %s\n", VerdictLine(result)); err != nil {
		return err
	}
	if result.Optimization != nil {
		_, err = fmt.Fprintf(w, "Equal cost: %s\n", OptimizationLine(*result.Optimization))
	}
	return err
}

// OptimizationLine describes the outcome of an equal-cost search.
func OptimizationLine(summary optimization.Summary) string {
	if !summary.Converged {
		line := fmt.Sprintf("%s has no equal-cost value between %s and %s",
			summary.Field, format.NumericCurrency(summary.Min), format.NumericCurrency(summary.Max))
		if len(summary.Notes) > 0 {
			line += " (" + strings.Join(summary.Notes, "; ") + ")"
		}
		return line
	}
	return fmt.Sprintf("%s = %s (configured %s, %d iterations)",
		summary.Field, format.NumericCurrency(summary.Value), format.NumericCurrency(summary.Original), summary.Iterations)
}

// prettyResiduals prints the resale value schedule of both vehicles as whole
// amounts with the retained share of the purchase price.
func prettyResiduals(w io.Writer, result forecast.Forecast) error {
	if len(result.ResidualsA) == 0 || len(result.ResidualsA) != len(result.ResidualsB) {
		return nil
	}
	fmt.Fprintf(w, "\nResidual values:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Year\t| %s\t| %s\n", result.NameA, result.NameB)
	for i, pointA := range result.ResidualsA {
		pointB := result.ResidualsB[i]
		fmt.Fprintf(tw, "%d\t| %s (%s)\t| %s (%s)\n",
			pointA.Year,
			format.WholeCurrency(pointA.Value), format.Percent(pointA.Rate),
			format.WholeCurrency(pointB.Value), format.Percent(pointB.Rate),
		)
	}
	return tw.Flush()
}

// VerdictLine summarises the outcome of a comparison in one sentence.
func VerdictLine(result forecast.Forecast) string {
	comparison := result.Comparison
	verdict := result.Verdict
	if verdict.Outcome == tco.OutcomeIdentical {
		return "both vehicles cost the same"
	}

	var b strings.Builder
	switch verdict.Winner {
	case tco.SideA:
		fmt.Fprintf(&b, "%s is cheaper at year %d by %s", result.NameA, comparison.Horizon, format.Currency(verdict.Savings))
	case tco.SideB:
		fmt.Fprintf(&b, "%s is cheaper at year %d by %s", result.NameB, comparison.Horizon, format.Currency(verdict.Savings))
	default:
		fmt.Fprintf(&b, "both vehicles cost the same at year %d", comparison.Horizon)
	}

	switch verdict.Outcome {
	case tco.OutcomeBreakEven:
		fmt.Fprintf(&b, "; break-even at year %s", format.Years(comparison.Crossing.FractionalYear))
	case tco.OutcomeBreakEvenBeyondHorizon:
		fmt.Fprintf(&b, "; break-even at year %s, beyond the ownership horizon", format.Years(comparison.Crossing.FractionalYear))
	default:
		b.WriteString("; no break-even within the evaluated years")
	}
	return b.String()
}

func underline(s string) string {
	if len(s) == 0 {
		return "_"
	}
	return strings.Repeat("_", len([]rune(s)))
}

var csvHeader = []string{"comparison", "year", "nameA", "costA", "nameB", "costB", "diff", "withinHorizon", "notes"}

// CsvFormat outputs in comma-separated value format, one row per comparison
// and evaluated year.
func CsvFormat(w io.Writer, results []forecast.Forecast) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		comparison := result.Comparison
		for year := range comparison.SeriesA {
			record := []string{
				result.Name,
				strconv.Itoa(year),
				result.NameA,
				amount(comparison.SeriesA[year].Accumulated),
				result.NameB,
				amount(comparison.SeriesB[year].Accumulated),
				amount(comparison.Diff(year)),
				strconv.FormatBool(year <= comparison.Horizon),
				strings.Join(result.Notes[year], "; "),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendering of results.
func CsvString(results []forecast.Forecast) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func amount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// Renderer writes every controller result to Writer in Format.
type Renderer struct {
	Writer io.Writer
	Format string
}

// Render implements controller.Renderer.
func (r Renderer) Render(result controller.Result) error {
	return Write(r.Writer, r.Format, result.Forecasts)
}
