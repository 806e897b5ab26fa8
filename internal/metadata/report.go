package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"github.com/KaramelBytes/metamon-cli/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Report holds the metadata of every column of one dataset.
type Report struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Rows        int              `json:"rows" yaml:"rows"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Columns     []ColumnMetadata `json:"columns" yaml:"columns"`
}

// Infer classifies every column of t and wraps the result in a Report.
func Infer(ctx context.Context, name string, t *data.Table, opt Options) (*Report, error) {
	cols, err := ClassifyTable(ctx, t, opt)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:          uuid.NewString(),
		Name:        name,
		Rows:        t.Rows(),
		GeneratedAt: time.Now().UTC(),
		Columns:     cols,
	}, nil
}

// Column looks up the metadata of a column by name.
func (r *Report) Column(name string) (ColumnMetadata, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnMetadata{}, false
}

// Output formats understood by Encode and LoadReport.
const (
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Encode renders the report in the given format.
func (r *Report) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		b, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case FormatJSON:
		return utils.PrettyJSON(r)
	case FormatMarkdown, "md":
		return []byte(r.Markdown()), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use yaml|json|markdown)", format)
	}
}

// FormatExt returns the file extension used for a format.
func FormatExt(format string) string {
	switch strings.ToLower(format) {
	case FormatJSON:
		return ".json"
	case FormatMarkdown, "md":
		return ".md"
	default:
		return ".yaml"
	}
}

// LoadReport reads a report written by Encode in JSON or YAML, chosen by extension.
func LoadReport(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var r Report
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("parse metadata: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("parse metadata: %w", err)
		}
	}
	for _, c := range r.Columns {
		if !c.MeaningType.Valid() {
			return nil, fmt.Errorf("parse metadata: column %q: unknown meaning_type %q", c.Name, c.MeaningType)
		}
	}
	return &r, nil
}

// columnWire is the encoded shape of ColumnMetadata. A cut unique value list
// ends with the truncation marker and sets truncated, so a genuine "TRUNCATED"
// value is never mistaken for the marker.
type columnWire struct {
	Name                 string        `json:"name" yaml:"name"`
	MeaningType          MeaningType   `json:"meaning_type" yaml:"meaning_type"`
	StorageTypes         []StorageType `json:"storage_types,omitempty" yaml:"storage_types,omitempty"`
	UniqueValues         []data.Value  `json:"unique_values,omitempty" yaml:"unique_values,omitempty"`
	Truncated            bool          `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	NumberOfUniqueValues *int          `json:"number_of_unique_values,omitempty" yaml:"number_of_unique_values,omitempty"`
	Nullable             *bool         `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Buckets              []data.Value  `json:"buckets,omitempty" yaml:"buckets,omitempty"`
	Min                  *data.Value   `json:"min,omitempty" yaml:"min,omitempty"`
	Median               *data.Value   `json:"median,omitempty" yaml:"median,omitempty"`
	Max                  *data.Value   `json:"max,omitempty" yaml:"max,omitempty"`
}

func (c ColumnMetadata) wire() columnWire {
	w := columnWire{Name: c.Name, MeaningType: c.MeaningType}
	if c.MeaningType == Empty {
		return w
	}
	n, nullable := c.NumberOfUniqueValues, c.Nullable
	w.StorageTypes = c.StorageTypes
	w.NumberOfUniqueValues = &n
	w.Nullable = &nullable
	w.UniqueValues = append(make([]data.Value, 0, len(c.UniqueValues)+1), c.UniqueValues...)
	if c.Truncated {
		w.UniqueValues = append(w.UniqueValues, data.Text(TruncatedMarker))
		w.Truncated = true
	}
	if c.MeaningType == Numeric {
		w.Buckets = make([]data.Value, len(c.Buckets))
		for i, b := range c.Buckets {
			w.Buckets[i] = data.Number(b)
		}
		mn, md, mx := data.Number(c.Min), data.Number(c.Median), data.Number(c.Max)
		w.Min, w.Median, w.Max = &mn, &md, &mx
	}
	return w
}

func (c *ColumnMetadata) fromWire(w columnWire) error {
	*c = ColumnMetadata{Name: w.Name, MeaningType: w.MeaningType, StorageTypes: w.StorageTypes}
	if w.NumberOfUniqueValues != nil {
		c.NumberOfUniqueValues = *w.NumberOfUniqueValues
	}
	if w.Nullable != nil {
		c.Nullable = *w.Nullable
	}
	c.UniqueValues = w.UniqueValues
	if n := len(c.UniqueValues); w.Truncated && n > 0 {
		if s, ok := c.UniqueValues[n-1].AsText(); ok && s == TruncatedMarker {
			c.UniqueValues = c.UniqueValues[:n-1]
		}
		c.Truncated = true
	}
	var err error
	if c.Buckets, err = decimals(w.Buckets); err != nil {
		return fmt.Errorf("column %q buckets: %w", w.Name, err)
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		src *data.Value
		key string
	}{{&c.Min, w.Min, "min"}, {&c.Median, w.Median, "median"}, {&c.Max, w.Max, "max"}} {
		if f.src == nil {
			continue
		}
		d, ok := f.src.AsNumber()
		if !ok {
			return fmt.Errorf("column %q %s: not a number: %#v", w.Name, f.key, *f.src)
		}
		*f.dst = d
	}
	return nil
}

func decimals(vs []data.Value) ([]decimal.Decimal, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		d, ok := v.AsNumber()
		if !ok {
			return nil, fmt.Errorf("boundary %d is not a number: %#v", i, v)
		}
		out[i] = d
	}
	return out, nil
}

func (c ColumnMetadata) MarshalJSON() ([]byte, error) { return json.Marshal(c.wire()) }

func (c *ColumnMetadata) UnmarshalJSON(b []byte) error {
	var w columnWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	return c.fromWire(w)
}

func (c ColumnMetadata) MarshalYAML() (interface{}, error) { return c.wire(), nil }

func (c *ColumnMetadata) UnmarshalYAML(node *yaml.Node) error {
	var w columnWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return c.fromWire(w)
}
