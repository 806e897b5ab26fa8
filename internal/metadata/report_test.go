package metadata

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"gopkg.in/yaml.v3"
)

func sampleTable(t *testing.T) *data.Table {
	t.Helper()
	tbl := data.NewTable()
	add := func(name string, values []data.Value) {
		col, err := tbl.AddColumn(name)
		if err != nil {
			t.Fatal(err)
		}
		col.Values = values
	}
	add("flag", vals("t", "f", nil, "T"))
	add("empty", nil)
	add("city", vals("Oslo", "Lima", "Oslo", "Pune"))
	add("n", intRange(-20, 20))
	words := make([]data.Value, 40)
	for i := range words {
		words[i] = data.Text(strings.Repeat("w", i+1))
	}
	add("words", words)
	return tbl
}

func TestInferReport(t *testing.T) {
	rep, err := Infer(context.Background(), "sample.csv", sampleTable(t), DefaultOptions())
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if rep.ID == "" || rep.GeneratedAt.IsZero() {
		t.Fatalf("missing id or timestamp: %+v", rep)
	}
	if rep.Rows != 40 || len(rep.Columns) != 5 {
		t.Fatalf("rows=%d columns=%d", rep.Rows, len(rep.Columns))
	}
	want := map[string]MeaningType{"flag": Binary, "empty": Empty, "city": Categorical, "n": Numeric, "words": Textual}
	for name, mt := range want {
		c, ok := rep.Column(name)
		if !ok || c.MeaningType != mt {
			t.Fatalf("column %s = %+v, want %s", name, c, mt)
		}
	}
	if _, ok := rep.Column("missing"); ok {
		t.Fatalf("unexpected column")
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	rep, err := Infer(context.Background(), "sample.csv", sampleTable(t), DefaultOptions())
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	b, err := rep.Encode(FormatJSON)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var raw struct {
		Columns []map[string]any `json:"columns"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	empty := raw.Columns[1]
	if len(empty) != 2 || empty["meaning_type"] != "empty" {
		t.Fatalf("empty column should only carry name and meaning_type: %v", empty)
	}
	words := raw.Columns[4]["unique_values"].([]any)
	if len(words) != 11 || words[10] != TruncatedMarker {
		t.Fatalf("truncated unique values = %v", words)
	}
	if _, ok := raw.Columns[4]["buckets"]; ok {
		t.Fatalf("textual column should not carry buckets")
	}

	var back Report
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertSameReport(t, rep, &back)
}

func TestReportYAMLRoundTrip(t *testing.T) {
	rep, err := Infer(context.Background(), "sample.csv", sampleTable(t), DefaultOptions())
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	b, err := rep.Encode(FormatYAML)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(b), "meaning_type: numeric") || !strings.Contains(string(b), "- -16.1") {
		t.Fatalf("unexpected yaml:\n%s", b)
	}
	var back Report
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertSameReport(t, rep, &back)
}

func TestLoadReport(t *testing.T) {
	rep, err := Infer(context.Background(), "sample.csv", sampleTable(t), DefaultOptions())
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	dir := t.TempDir()
	for _, format := range []string{FormatJSON, FormatYAML} {
		b, err := rep.Encode(format)
		if err != nil {
			t.Fatalf("encode %s: %v", format, err)
		}
		p := filepath.Join(dir, "report"+FormatExt(format))
		if err := os.WriteFile(p, b, 0o644); err != nil {
			t.Fatal(err)
		}
		back, err := LoadReport(p)
		if err != nil {
			t.Fatalf("load %s: %v", format, err)
		}
		assertSameReport(t, rep, back)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("columns:\n  - name: a\n    meaning_type: weird\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReport(bad); err == nil || !strings.Contains(err.Error(), "unknown meaning_type") {
		t.Fatalf("err = %v", err)
	}
	if _, err := LoadReport(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if _, err := (&Report{}).Encode("xml"); err == nil {
		t.Fatalf("expected error")
	}
	if FormatExt("md") != ".md" || FormatExt("") != ".yaml" {
		t.Fatalf("unexpected extensions")
	}
}

func TestMarkdown(t *testing.T) {
	rep, err := Infer(context.Background(), "sample.csv", sampleTable(t), DefaultOptions())
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET METADATA]",
		"File: sample.csv",
		"Rows: 40",
		"Columns: 5",
		"- flag: binary (storage null|string; unique 4; nullable)",
		"- empty: empty\n",
		`- city: categorical (storage string; unique 3) — values: "Oslo", "Lima", "Pune"`,
		"- n: numeric (storage number; unique 40) — min -20, median -0.5, max 19; buckets [-20, -16.1,",
		", …\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func assertSameReport(t *testing.T, want, got *Report) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name || got.Rows != want.Rows || !got.GeneratedAt.Equal(want.GeneratedAt) {
		t.Fatalf("header mismatch: %+v vs %+v", got, want)
	}
	if len(got.Columns) != len(want.Columns) {
		t.Fatalf("columns = %d, want %d", len(got.Columns), len(want.Columns))
	}
	for i, w := range want.Columns {
		g := got.Columns[i]
		if g.Name != w.Name || g.MeaningType != w.MeaningType || g.NumberOfUniqueValues != w.NumberOfUniqueValues ||
			g.Nullable != w.Nullable || g.Truncated != w.Truncated {
			t.Fatalf("column %d: got %+v, want %+v", i, g, w)
		}
		if len(g.StorageTypes) != len(w.StorageTypes) || len(g.UniqueValues) != len(w.UniqueValues) {
			t.Fatalf("column %d: storage/unique mismatch %v %v", i, g.StorageTypes, g.UniqueValues)
		}
		for j := range w.UniqueValues {
			if g.UniqueValues[j].Kind() != w.UniqueValues[j].Kind() || !g.UniqueValues[j].Equal(w.UniqueValues[j]) {
				t.Fatalf("column %d unique %d: got %#v, want %#v", i, j, g.UniqueValues[j], w.UniqueValues[j])
			}
		}
		assertDecimals(t, g.Buckets, w.Buckets)
		if !g.Min.Equal(w.Min) || !g.Median.Equal(w.Median) || !g.Max.Equal(w.Max) {
			t.Fatalf("column %d stats: got %s/%s/%s", i, g.Min, g.Median, g.Max)
		}
	}
}
