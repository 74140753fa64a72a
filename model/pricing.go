package model

import (
	"math"
	"time"
)

// RentalDays counts the days in [start, end], inclusive of both ends. A
// partial trailing day counts as a whole day.
func RentalDays(start, end time.Time) int {
	diff := end.Sub(start)
	return int(math.Ceil(diff.Hours()/24)) + 1
}

// RentalTotal is not rounded; rounding to cents happens at the payment
// boundary.
func RentalTotal(start, end time.Time, pricePerDay float64) float64 {
	return float64(RentalDays(start, end)) * pricePerDay
}
