package metadata

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"github.com/shopspring/decimal"
)

// AllNumeric coerces every value to a number. Nulls are kept as invalid entries
// so the result lines up with the input. It stops at the first value that cannot be
// coerced and returns false; the returned slice is meaningless in that case.
func AllNumeric(values []data.Value) (bool, []decimal.NullDecimal) {
	out := make([]decimal.NullDecimal, 0, len(values))
	for _, v := range values {
		n, ok := CoerceNumber(v)
		if !ok {
			return false, out
		}
		out = append(out, n)
	}
	return true, out
}

// CoerceNumber converts one value: null stays null, booleans become 0/1, numbers
// pass through and text is parsed as an exact decimal.
func CoerceNumber(v data.Value) (decimal.NullDecimal, bool) {
	switch v.Kind() {
	case data.KindNull:
		return decimal.NullDecimal{}, true
	case data.KindBool:
		b, _ := v.AsBool()
		if b {
			return decimal.NewNullDecimal(decimal.NewFromInt(1)), true
		}
		return decimal.NewNullDecimal(decimal.Zero), true
	case data.KindNumber:
		d, _ := v.AsNumber()
		return decimal.NewNullDecimal(d), true
	case data.KindText:
		s, _ := v.AsText()
		d, ok := parseNumber(s)
		if !ok {
			return decimal.NullDecimal{}, false
		}
		return decimal.NewNullDecimal(d), true
	default:
		panic(fmt.Sprintf("metadata: unsupported value kind %s", v.Kind()))
	}
}

// maxExponent bounds accepted text like "1e400"; decimal arithmetic on far
// larger exponents allocates integers with that many digits.
const maxExponent = 4096

// parseNumber reads integer, decimal and exponent notation exactly. Underscores
// are accepted between digits ("1_000"); inf and NaN are not numbers.
func parseNumber(s string) (decimal.Decimal, bool) {
	raw, ok := stripDigitSeparators(strings.TrimSpace(s))
	if !ok || raw == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Decimal{}, false
	}
	return d, true
}

// stripDigitSeparators removes underscores that sit between two digits and
// rejects any other underscore.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

// presentNumbers drops the null entries.
func presentNumbers(in []decimal.NullDecimal) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(in))
	for _, n := range in {
		if n.Valid {
			out = append(out, n.Decimal)
		}
	}
	return out
}
