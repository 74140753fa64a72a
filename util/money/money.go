package money

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidMoney = errors.New("invalid money amount")

// DollarsToCents converts a decimal dollar amount (like 12.34) to cents,
// rounding to the nearest cent.
func DollarsToCents(dollars float64) (int64, error) {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0, ErrInvalidMoney
	}
	if dollars < 0 {
		return 0, ErrInvalidMoney
	}
	if dollars > 9e16 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidMoney)
	}
	return int64(math.Round(dollars * 100.0)), nil
}

func CentsToString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
