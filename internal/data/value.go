package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Kind is the storage representation of a raw cell value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindText:
		return "string"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ErrUnsupportedValue is returned when an encoded value has no raw value equivalent
// (nested arrays/objects, infinities, NaN).
var ErrUnsupportedValue = errors.New("unsupported value")

// Value is a single raw cell: null, boolean, text or an exact decimal number.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string
	n    decimal.Decimal
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Text(s string) Value { return Value{kind: KindText, s: s} }
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, n: d} }
func Int(i int64) Value { return Number(decimal.NewFromInt(i)) }

// MustNumber parses s as a decimal number and panics on failure. Intended for fixtures.
func MustNumber(s string) Value {
	return Number(decimal.RequireFromString(s))
}

// Kind reports the storage kind of v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload; ok is false for other kinds.
func (v Value) AsBool() (b bool, ok bool) { return v.b, v.kind == KindBool }

// AsText returns the text payload; ok is false for other kinds.
func (v Value) AsText() (s string, ok bool) { return v.s, v.kind == KindText }

// AsNumber returns the numeric payload; ok is false for other kinds.
func (v Value) AsNumber() (d decimal.Decimal, ok bool) { return v.n, v.kind == KindNumber }

// Key returns a string that is equal for two values iff they are equal under
// their natural equality: numbers and booleans compare numerically (true == 1 == 1.0),
// text compares exactly, and null only equals null. Text and numbers never collide.
func (v Value) Key() string {
	switch v.kind {
	case KindNull:
		return "n:"
	case KindBool:
		if v.b {
			return "#1"
		}
		return "#0"
	case KindText:
		return "s:" + v.s
	case KindNumber:
		return "#" + v.n.String()
	default:
		panic(fmt.Sprintf("data: unknown value kind %d", v.kind))
	}
}

// Equal reports natural equality, see Key.
func (v Value) Equal(o Value) bool { return v.Key() == o.Key() }

// String renders the value the way it would appear in a delimited file.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindText:
		return v.s
	case KindNumber:
		return v.n.String()
	default:
		panic(fmt.Sprintf("data: unknown value kind %d", v.kind))
	}
}

// GoString makes test failure output distinguish "1" from 1.
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindText:
		return fmt.Sprintf("%q", v.s)
	default:
		return v.String()
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindText:
		return json.Marshal(v.s)
	case KindNumber:
		return []byte(v.n.String()), nil
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("unmarshal value: empty input")
	}
	switch b[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var x bool
		if err := json.Unmarshal(b, &x); err != nil {
			return fmt.Errorf("unmarshal value: %w", err)
		}
		*v = Bool(x)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("unmarshal value: %w", err)
		}
		*v = Text(s)
		return nil
	case '{', '[':
		return fmt.Errorf("unmarshal value: nested %s: %w", string(b[:1]), ErrUnsupportedValue)
	default:
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("unmarshal value %s: %w", string(b), err)
		}
		*v = Number(d)
		return nil
	}
}

// FromJSONToken converts a token produced by a json.Decoder with UseNumber set.
func FromJSONToken(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return Value{}, fmt.Errorf("number %s: %w", t, err)
		}
		return Number(d), nil
	case float64:
		return Number(decimal.NewFromFloat(t)), nil
	case json.Delim:
		return Value{}, fmt.Errorf("nested %s: %w", t, ErrUnsupportedValue)
	default:
		return Value{}, fmt.Errorf("token %T: %w", tok, ErrUnsupportedValue)
	}
}

func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindText:
		return v.s, nil
	case KindNumber:
		tag := "!!float"
		if v.n.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.n.String()}, nil
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %d", v.kind)
	}
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	x, err := FromYAML(node)
	if err != nil {
		return err
	}
	*v = x
	return nil
}

// FromYAML converts a resolved scalar node to a Value.
func FromYAML(node *yaml.Node) (Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return FromYAML(node.Alias)
	}
	if node.Kind != yaml.ScalarNode {
		return Value{}, fmt.Errorf("line %d: non-scalar node: %w", node.Line, ErrUnsupportedValue)
	}
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		if d, err := decimal.NewFromString(strings.ReplaceAll(node.Value, "_", "")); err == nil {
			return Number(d), nil
		}
		// hex, octal and friends: let yaml resolve them
		if node.ShortTag() == "!!int" {
			var i int64
			if err := node.Decode(&i); err == nil {
				return Int(i), nil
			}
		}
		return Value{}, fmt.Errorf("line %d: number %q: %w", node.Line, node.Value, ErrUnsupportedValue)
	case "!!str":
		return Text(node.Value), nil
	default:
		return Value{}, fmt.Errorf("line %d: tag %s: %w", node.Line, node.ShortTag(), ErrUnsupportedValue)
	}
}
