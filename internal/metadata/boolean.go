package metadata

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"github.com/shopspring/decimal"
)

var (
	trueWords  = map[string]bool{"t": true, "true": true, "1": true}
	falseWords = map[string]bool{"f": true, "false": true, "0": true}
)

// AllBooleanLike reports whether every value could be read as a boolean:
// null, a native boolean, one of t/f/true/false/0/1 in any case, or a number equal to 0 or 1.
func AllBooleanLike(values []data.Value) bool {
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if _, ok := BooleanOf(v); !ok {
			return false
		}
	}
	return true
}

// BooleanOf interprets a non-null value as a boolean. ok is false for null and
// for values outside the boolean-like vocabulary.
func BooleanOf(v data.Value) (b bool, ok bool) {
	switch v.Kind() {
	case data.KindNull:
		return false, false
	case data.KindBool:
		return v.AsBool()
	case data.KindText:
		s, _ := v.AsText()
		s = strings.ToLower(s)
		if trueWords[s] {
			return true, true
		}
		if falseWords[s] {
			return false, true
		}
		return false, false
	case data.KindNumber:
		d, _ := v.AsNumber()
		if d.Equal(decimal.NewFromInt(1)) {
			return true, true
		}
		if d.IsZero() {
			return false, true
		}
		return false, false
	default:
		panic(fmt.Sprintf("metadata: unsupported value kind %s", v.Kind()))
	}
}
