package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
)

type delimitedParser struct{}

func (delimitedParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

// Parse reads a header line followed by rows. Every cell becomes text; quoting
// is stripped but no type conversion happens here.
func (delimitedParser) Parse(filename string, content []byte, opt Options) (*data.Table, error) {
	sep := opt.Separator
	if sep == 0 {
		sep = sniffSeparator(filename)
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.ReuseRecord = true
	r.TrimLeadingSpace = sep != ' ' && sep != '\t'

	t := data.NewTable()
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]*data.Column, len(header))
	for i, h := range header {
		c, err := t.AddColumn(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		cols[i] = c
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) != len(cols) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d has %d columns, header has %d: %w", line, len(rec), len(cols), ErrColumnCount)
		}
		for i, field := range rec {
			cols[i].Values = append(cols[i].Values, data.Text(field))
		}
	}
	return t, nil
}

func sniffSeparator(filename string) rune {
	if strings.HasSuffix(strings.ToLower(filename), ".tsv") {
		return '\t'
	}
	return ','
}
