package metadata

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/data"
)

// Markdown renders a compact, human-readable summary of the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET METADATA]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Columns)))

	b.WriteString("[COLUMNS]\n")
	for _, c := range r.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), c.MeaningType))
		if c.MeaningType == Empty {
			b.WriteString("\n")
			continue
		}
		types := make([]string, len(c.StorageTypes))
		for i, st := range c.StorageTypes {
			types[i] = string(st)
		}
		b.WriteString(fmt.Sprintf(" (storage %s; unique %d", strings.Join(types, "|"), c.NumberOfUniqueValues))
		if c.Nullable {
			b.WriteString("; nullable")
		}
		b.WriteString(")")
		switch c.MeaningType {
		case Numeric:
			b.WriteString(fmt.Sprintf(" — min %s, median %s, max %s", c.Min, c.Median, c.Max))
			if len(c.Buckets) > 0 {
				pts := make([]string, len(c.Buckets))
				for i, p := range c.Buckets {
					pts[i] = p.String()
				}
				b.WriteString(fmt.Sprintf("; buckets [%s]", strings.Join(pts, ", ")))
			}
		default:
			if len(c.UniqueValues) > 0 {
				b.WriteString(" — values: ")
				for i, v := range c.UniqueValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(displayValue(v))
				}
				if c.Truncated {
					b.WriteString(", …")
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func displayValue(v data.Value) string {
	switch v.Kind() {
	case data.KindNull:
		return "null"
	case data.KindText:
		s, _ := v.AsText()
		return fmt.Sprintf("%q", safeVal(s))
	default:
		return v.String()
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
