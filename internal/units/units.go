// Package units converts between hours and day-equivalents and rounds values
// for display and export. Nothing else in rileva rounds.
package units

import (
	"math"

	"github.com/shopspring/decimal"
)

// HoursPerDay is the length of a full workday.
const HoursPerDay = 8.0

// MaxMonthDays bounds any monthly day count; a total above it must be hours.
const MaxMonthDays = 31

// RoundTo2 rounds x to two decimals, halves away from zero.
func RoundTo2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// HoursToDays converts hours to rounded day-equivalents.
func HoursToDays(hours float64) float64 {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0
	}
	return RoundTo2(hours / HoursPerDay)
}

// IsLikelyHours reports whether a monthly total can only be an hour count.
func IsLikelyHours(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v > MaxMonthDays
}

// Normalizer turns an incoming monthly total into the day-equivalent the
// report cells expect.
//
// With Heuristic enabled, totals above MaxMonthDays are treated as raw hours
// and divided by HoursPerDay; anything else is assumed to already be a day
// count. This keeps older callers that pass hour totals working. It cannot
// tell 20 hours from 20 days, so it should be switched off once every caller
// passes day-equivalents.
type Normalizer struct {
	Heuristic bool
}

// Total normalises one monthly total.
func (n Normalizer) Total(v float64) float64 {
	if n.Heuristic && IsLikelyHours(v) {
		return HoursToDays(v)
	}
	return RoundTo2(v)
}
