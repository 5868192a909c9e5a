// Package money holds the rounding and ratio helpers shared by the store and
// the analytics engine. Amounts are whole KRW carried in float64.
package money

import "math"

// Round rounds half away from zero for positive values, matching how the
// product displays percentages and derived prices.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Ratio returns num/den, or 0 when den is not positive.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// Percent returns round(num/den*100), or 0 when den is not positive.
func Percent(num, den float64) float64 {
	return Round(Ratio(num, den) * 100)
}

// Clamp01 limits x to [0, 1].
func Clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Valid reports whether x is a finite number.
func Valid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
