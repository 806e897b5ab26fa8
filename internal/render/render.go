// Package render rewrites raw column values according to inferred metadata:
// binary columns become booleans, text in categorical and textual columns is
// quoted, and numeric columns are replaced by their bucket labels.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"github.com/KaramelBytes/metamon-cli/internal/metadata"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoMetadata is returned for a column the report does not describe.
	ErrNoMetadata = errors.New("no metadata for column")
	// ErrMismatch is returned when a value cannot be rendered as its column's meaning type.
	ErrMismatch = errors.New("value does not match meaning type")
)

// Table renders every column of t with the metadata in rep. The result has
// the same column order and row count as t.
func Table(t *data.Table, rep *metadata.Report) (*data.Table, error) {
	out := data.NewTable()
	for _, col := range t.Columns {
		md, ok := rep.Column(col.Name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrNoMetadata, col.Name)
		}
		values, err := Column(col.Values, md)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", col.Name, err)
		}
		c, err := out.AddColumn(col.Name)
		if err != nil {
			return nil, err
		}
		c.Values = values
	}
	return out, nil
}

// Column renders one column. Nulls stay null whatever the meaning type.
func Column(values []data.Value, md metadata.ColumnMetadata) ([]data.Value, error) {
	out := make([]data.Value, len(values))
	switch md.MeaningType {
	case metadata.Empty:
		copy(out, values)
	case metadata.Binary:
		for i, v := range values {
			if v.IsNull() {
				continue
			}
			b, ok := metadata.BooleanOf(v)
			if !ok {
				return nil, fmt.Errorf("row %d: %#v is not boolean-like: %w", i+1, v, ErrMismatch)
			}
			out[i] = data.Bool(b)
		}
	case metadata.Categorical, metadata.Textual:
		for i, v := range values {
			if s, ok := v.AsText(); ok {
				out[i] = data.Text(Quote(s))
				continue
			}
			out[i] = v
		}
	case metadata.Numeric:
		numbers := make([]decimal.Decimal, 0, len(values))
		rows := make([]int, 0, len(values))
		for i, v := range values {
			n, ok := metadata.CoerceNumber(v)
			if !ok {
				return nil, fmt.Errorf("row %d: %#v is not numeric: %w", i+1, v, ErrMismatch)
			}
			if n.Valid {
				numbers = append(numbers, n.Decimal)
				rows = append(rows, i)
			}
		}
		for j, label := range metadata.Bucketize(numbers, md.Buckets, md.Name) {
			out[rows[j]] = data.Text(label)
		}
	default:
		return nil, fmt.Errorf("unknown meaning type %q", md.MeaningType)
	}
	return out, nil
}

// Quote wraps s in double quotes, doubling any quote inside.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteDelimited writes the header and rows of t separated by sep. Cells are
// written as rendered; header names are quoted only when they need to be.
func WriteDelimited(w io.Writer, t *data.Table, sep rune) error {
	bw := bufio.NewWriter(w)
	field := string(sep)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = quoteIfNeeded(c.Name, sep)
	}
	if _, err := bw.WriteString(strings.Join(header, field) + "\n"); err != nil {
		return err
	}
	rows := t.Rows()
	cells := make([]string, len(t.Columns))
	for r := 0; r < rows; r++ {
		for i, c := range t.Columns {
			cells[i] = ""
			if r < len(c.Values) {
				cells[i] = c.Values[r].String()
			}
		}
		if _, err := bw.WriteString(strings.Join(cells, field) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quoteIfNeeded(s string, sep rune) string {
	if strings.ContainsRune(s, sep) || strings.ContainsAny(s, "\"\r\n") {
		return Quote(s)
	}
	return s
}
