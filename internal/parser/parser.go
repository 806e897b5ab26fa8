package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/metamon-cli/internal/data"
)

// Options controls how files are turned into tables.
type Options struct {
	// Separator for delimited text. If 0, '\t' for .tsv files and ',' otherwise.
	Separator rune
	// SheetName selects an XLSX sheet by name; SheetIndex (1-based) is used when empty.
	SheetName  string
	SheetIndex int
}

// Parser turns file content into a column-oriented table.
type Parser interface {
	CanParse(filename string) bool
	Parse(filename string, content []byte, opt Options) (*data.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

var (
	// ErrColumnCount indicates a row whose field count differs from the header.
	ErrColumnCount = errors.New("inconsistent number of columns")
	// ErrUnsupportedValue indicates a cell that is not null, boolean, text or number.
	ErrUnsupportedValue = data.ErrUnsupportedValue
)

// ParseFile selects a parser based on filename and returns the parsed table.
// Files no registered parser claims are read as delimited text.
func ParseFile(path string, opt Options) (*data.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	for _, p := range registry {
		if p.CanParse(path) {
			return p.Parse(path, content, opt)
		}
	}
	return delimitedParser{}.Parse(path, content, opt)
}

func init() {
	Register(delimitedParser{})
	Register(jsonLinesParser{})
	Register(yamlParser{})
	Register(xlsxParser{})
}

// rowBuilder collects keyed records whose keys may differ between rows.
// Keys keep first-seen order and missing cells become null.
type rowBuilder struct {
	order []string
	seen  map[string]bool
	rows  []map[string]data.Value
}

func (b *rowBuilder) add(row map[string]data.Value, keys []string) {
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	for _, k := range keys {
		if !b.seen[k] {
			b.seen[k] = true
			b.order = append(b.order, k)
		}
	}
	b.rows = append(b.rows, row)
}

func (b *rowBuilder) table() (*data.Table, error) {
	t := data.NewTable()
	for _, name := range b.order {
		col, err := t.AddColumn(name)
		if err != nil {
			return nil, err
		}
		col.Values = make([]data.Value, len(b.rows))
		for i, row := range b.rows {
			col.Values[i] = row[name] // zero Value is null
		}
	}
	return t, nil
}
