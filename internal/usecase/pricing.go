package usecase

import "math"

// Minor converts a provider decimal cost to minor currency units.
func Minor(cost float64) int64 {
	return int64(math.Round(cost * 100))
}

// FinalPrice applies the tenant markup to a start price. Both prices are
// minor units; the result is what the end-user actually pays and is
// frozen on the order at creation.
func FinalPrice(start int64, percent int) int64 {
	return start + start*int64(percent)/100
}
