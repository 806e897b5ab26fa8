package metadata

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultVariableName is used in bucket labels when no column name is given.
const DefaultVariableName = "x"

// Bucketize labels each number with the half-open interval of boundaries it falls in:
//
//	"{name}<{lo}"            below the first boundary
//	"{b[i]}<={name}<{b[i+1]}" between two boundaries
//	"{hi}<={name}"           at or above the last boundary
//	"-inf<{name}<inf"        when there are no boundaries
//
// The boundaries slice is not modified.
func Bucketize(numbers, boundaries []decimal.Decimal, name string) []string {
	if name == "" {
		name = DefaultVariableName
	}
	out := make([]string, 0, len(numbers))
	if len(boundaries) == 0 {
		label := fmt.Sprintf("-inf<%s<inf", name)
		for range numbers {
			out = append(out, label)
		}
		return out
	}
	b := make([]decimal.Decimal, len(boundaries))
	copy(b, boundaries)
	sort.SliceStable(b, func(i, j int) bool { return b[i].LessThan(b[j]) })
	for _, n := range numbers {
		out = append(out, bucketLabel(n, b, name))
	}
	return out
}

// bucketLabel expects sorted, non-empty boundaries.
func bucketLabel(n decimal.Decimal, b []decimal.Decimal, name string) string {
	lo, hi := b[0], b[len(b)-1]
	if n.LessThan(lo) {
		return fmt.Sprintf("%s<%s", name, lo)
	}
	if n.GreaterThanOrEqual(hi) {
		return fmt.Sprintf("%s<=%s", hi, name)
	}
	for i := 0; i+1 < len(b); i++ {
		if n.GreaterThanOrEqual(b[i]) && n.LessThan(b[i+1]) {
			return fmt.Sprintf("%s<=%s<%s", b[i], name, b[i+1])
		}
	}
	// lo <= n < hi always lands in some pair
	panic(fmt.Sprintf("metadata: %s not covered by boundaries %v", n, b))
}

// Boundaries returns k+1 evenly spaced points spanning [min, max] of numbers.
// The end points are min and max exactly; interior points are rounded to 2
// decimal places and clamped into [min, max]. Neighbours that coincide after
// rounding collapse, so fewer than k buckets may result.
func Boundaries(numbers []decimal.Decimal, k int) []decimal.Decimal {
	if k < 1 || len(numbers) == 0 {
		return nil
	}
	lo, hi := Min(numbers), Max(numbers)
	span := hi.Sub(lo)
	steps := decimal.NewFromInt(int64(k))
	out := []decimal.Decimal{lo}
	push := func(p decimal.Decimal) {
		if !p.Equal(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	for i := 1; i < k; i++ {
		p := lo.Add(span.Mul(decimal.NewFromInt(int64(i))).Div(steps)).Round(2)
		switch {
		case p.LessThan(lo):
			p = lo
		case p.GreaterThan(hi):
			p = hi
		}
		push(p)
	}
	push(hi)
	return out
}
