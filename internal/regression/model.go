// Package regression fits and evaluates the single-feature linear model used
// to forecast monthly expense totals.
package regression

import (
	"math"
	"strconv"
	"strings"
)

// LinearModel is a fitted line: predicted = Slope*x + Intercept.
type LinearModel struct {
	Slope     float64
	Intercept float64
}

// Predict returns the line's value at monthIndex.
func (m LinearModel) Predict(monthIndex float64) float64 {
	return m.Slope*monthIndex + m.Intercept
}

// PredictAll evaluates the line at every x.
func (m LinearModel) PredictAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = m.Predict(x)
	}
	return out
}

// IsFinite reports whether both parameters are finite numbers.
func (m LinearModel) IsFinite() bool {
	return !math.IsNaN(m.Slope) && !math.IsInf(m.Slope, 0) &&
		!math.IsNaN(m.Intercept) && !math.IsInf(m.Intercept, 0)
}

// ParseMonthIndex converts a raw query value into a month index. Any finite
// real number is accepted.
func ParseMonthIndex(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &InputParseError{Reason: "missing month_num parameter"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &InputParseError{Input: raw, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InputParseError{Input: raw, Reason: "must be a finite number"}
	}
	return v, nil
}
