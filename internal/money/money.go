// Package money represents currency as an integer count of cents to keep
// arithmetic exact. Decimal dollars exist only at the edges: parsing
// user-entered amounts and rendering display strings.
package money

import (
	"fmt"
	"math"
)

// ToCents converts a decimal-dollar value to cents, rounding half away
// from zero so $0.125 becomes 13 cents, matching what the user sees in a
// "$X.XX" field. Non-finite input is treated as zero: this runs in a
// UI-editing context where a half-typed value must not abort the edit.
func ToCents(dollars float64) int64 {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0
	}
	return int64(math.Round(dollars * 100.0))
}

// FromCents converts cents back to decimal dollars for display and edit
// round-tripping. No further rounding happens here.
func FromCents(cents int64) float64 {
	return float64(cents) / 100.0
}

// RoundCents rounds a fractional cent value (e.g. a tax computation) to a
// whole number of cents, half away from zero. 156.25 rounds to 156.
func RoundCents(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

// Format renders cents as a $-prefixed, fixed two-decimal string without
// going through floats.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
