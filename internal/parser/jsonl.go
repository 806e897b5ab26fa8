package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
)

type jsonLinesParser struct{}

func (jsonLinesParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".jsonl") || strings.HasSuffix(name, ".ndjson")
}

// Parse reads a stream of flat JSON objects. Keys become columns in first-seen
// order; native JSON types are kept, numbers exactly.
func (jsonLinesParser) Parse(_ string, content []byte, _ Options) (*data.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var b rowBuilder
	for rec := 1; ; rec++ {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("record %d: %w", rec, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("record %d: expected object, got %v", rec, tok)
		}
		row := make(map[string]data.Value)
		var keys []string
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", rec, err)
			}
			key, _ := kt.(string)
			vt, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", rec, err)
			}
			v, err := data.FromJSONToken(vt)
			if err != nil {
				return nil, fmt.Errorf("record %d key %q: %w", rec, key, err)
			}
			if _, dup := row[key]; !dup {
				keys = append(keys, key)
			}
			row[key] = v
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, fmt.Errorf("record %d: %w", rec, err)
		}
		b.add(row, keys)
	}
	return b.table()
}
