package metadata

import (
	"sort"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Min panics on an empty slice.
func Min(numbers []decimal.Decimal) decimal.Decimal {
	mustHaveNumbers(numbers, "min")
	return decimal.Min(numbers[0], numbers[1:]...)
}

// Max panics on an empty slice.
func Max(numbers []decimal.Decimal) decimal.Decimal {
	mustHaveNumbers(numbers, "max")
	return decimal.Max(numbers[0], numbers[1:]...)
}

// Median returns the middle value, or the mean of the two middle values for
// an even count. It panics on an empty slice.
func Median(numbers []decimal.Decimal) decimal.Decimal {
	mustHaveNumbers(numbers, "median")
	s := make([]decimal.Decimal, len(numbers))
	copy(s, numbers)
	sort.Slice(s, func(i, j int) bool { return s[i].LessThan(s[j]) })
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return s[mid-1].Add(s[mid]).Div(two)
}

func mustHaveNumbers(numbers []decimal.Decimal, op string) {
	if len(numbers) == 0 {
		panic("metadata: " + op + " of an empty numeric sequence")
	}
}
