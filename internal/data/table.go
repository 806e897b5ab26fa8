package data

import (
	"errors"
	"fmt"
)

// ErrDuplicateColumn is returned when a table already holds a column with the same name.
var ErrDuplicateColumn = errors.New("duplicate column")

// Column is a named, ordered sequence of raw values.
type Column struct {
	Name   string
	Values []Value
}

// Table is an ordered set of uniquely named columns.
type Table struct {
	Columns []*Column
	index   map[string]int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// AddColumn appends an empty column.
func (t *Table) AddColumn(name string) (*Column, error) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, ok := t.index[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	c := &Column{Name: name}
	t.index[name] = len(t.Columns)
	t.Columns = append(t.Columns, c)
	return c, nil
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Columns[i], true
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Rows returns the number of rows, taken from the longest column.
func (t *Table) Rows() int {
	n := 0
	for _, c := range t.Columns {
		if len(c.Values) > n {
			n = len(c.Values)
		}
	}
	return n
}
