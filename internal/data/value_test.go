package data

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestKeyNaturalEquality(t *testing.T) {
	cases := []struct {
		a, b  Value
		equal bool
	}{
		{Int(1), MustNumber("1.0"), true},
		{Int(1), Bool(true), true},
		{Int(0), Bool(false), true},
		{MustNumber("0.0"), Int(0), true},
		{Int(1), Text("1"), false},
		{Text("a"), Text("A"), false},
		{Null(), Text(""), false},
		{Null(), Null(), true},
		{MustNumber("10"), MustNumber("1e1"), true},
		{MustNumber("1.10"), MustNumber("1.1"), true},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.equal {
			t.Errorf("%#v == %#v: got %v want %v", c.a, c.b, got, c.equal)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := []Value{Null(), Bool(true), Text("a\"b"), MustNumber("-2.5"), Int(7)}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[null,true,"a\"b",-2.5,7]` {
		t.Fatalf("unexpected json: %s", b)
	}
	var out []Value
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := range in {
		if in[i].Kind() != out[i].Kind() || !in[i].Equal(out[i]) {
			t.Fatalf("value %d: got %#v want %#v", i, out[i], in[i])
		}
	}
	var v Value
	if err := json.Unmarshal([]byte(`[1]`), &v); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue for nested array, got %v", err)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	in := []Value{Null(), Bool(false), Text("true"), Text("12"), MustNumber("3.25"), Int(-4)}
	b, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out []Value
	if err := yaml.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, b)
	}
	if len(out) != len(in) {
		t.Fatalf("len: got %d want %d\n%s", len(out), len(in), b)
	}
	for i := range in {
		if in[i].Kind() != out[i].Kind() || !in[i].Equal(out[i]) {
			t.Fatalf("value %d: got %#v want %#v\n%s", i, out[i], in[i], b)
		}
	}
}

func TestFromYAMLRejectsSpecialFloats(t *testing.T) {
	var v Value
	err := yaml.Unmarshal([]byte(".inf"), &v)
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestTableAddColumn(t *testing.T) {
	tb := NewTable()
	if _, err := tb.AddColumn("a"); err != nil {
		t.Fatalf("add a: %v", err)
	}
	c, err := tb.AddColumn("b")
	if err != nil {
		t.Fatalf("add b: %v", err)
	}
	c.Values = append(c.Values, Int(1), Int(2))
	if _, err := tb.AddColumn("a"); !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if got := tb.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("names: %v", got)
	}
	if tb.Rows() != 2 {
		t.Fatalf("rows: %d", tb.Rows())
	}
	if _, ok := tb.Column("b"); !ok {
		t.Fatalf("lookup b failed")
	}
}
