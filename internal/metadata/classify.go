package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"golang.org/x/sync/errgroup"
)

// Options controls column classification.
type Options struct {
	// NumBuckets is the number of buckets generated for numeric columns.
	NumBuckets int
	// MaxUniqueValues caps the reported unique values; 0 means unlimited.
	MaxUniqueValues int
	// Threshold returns the unique-count cutoff below which a non-binary column
	// of numValues values is categorical. Nil means DensityThreshold(10).
	Threshold func(numValues int) float64
	// SingleValueCategorical classifies a one-row, non-binary column as categorical.
	// The threshold alone can never do so because log10(1) is 0.
	SingleValueCategorical bool
	// Workers bounds parallel column classification in ClassifyTable; 0 means no limit.
	Workers int
}

// DefaultOptions returns the classifier defaults.
func DefaultOptions() Options {
	return Options{
		NumBuckets:             10,
		MaxUniqueValues:        10,
		Threshold:              DensityThreshold(10),
		SingleValueCategorical: true,
	}
}

// DensityThreshold returns factor * log10(numValues).
func DensityThreshold(factor float64) func(int) float64 {
	return func(numValues int) float64 {
		return factor * math.Log10(float64(numValues))
	}
}

// Classify infers the metadata of one column. values is not modified.
func Classify(name string, values []data.Value, opt Options) ColumnMetadata {
	md := ColumnMetadata{Name: name}
	if len(values) == 0 {
		md.MeaningType = Empty
		return md
	}

	uniques := UniqueValues(values)
	md.NumberOfUniqueValues = len(uniques)
	md.Nullable = hasNullish(uniques)
	if opt.MaxUniqueValues > 0 && len(uniques) > opt.MaxUniqueValues {
		uniques = uniques[:opt.MaxUniqueValues:opt.MaxUniqueValues]
		md.Truncated = true
	}
	md.UniqueValues = uniques
	md.StorageTypes = StorageTypes(uniques)

	if AllBooleanLike(values) {
		md.MeaningType = Binary
		return md
	}

	threshold := opt.Threshold
	if threshold == nil {
		threshold = DensityThreshold(10)
	}
	if float64(md.NumberOfUniqueValues) < threshold(len(values)) ||
		(opt.SingleValueCategorical && len(values) == 1) {
		md.MeaningType = Categorical
		return md
	}

	ok, coerced := AllNumeric(values)
	if !ok {
		md.MeaningType = Textual
		return md
	}
	nums := presentNumbers(coerced)
	md.MeaningType = Numeric
	md.Min = Min(nums)
	md.Median = Median(nums)
	md.Max = Max(nums)
	md.Buckets = Boundaries(nums, opt.NumBuckets)
	return md
}

// UniqueValues deduplicates values under natural equality, keeping the first
// occurrence of each and the order of first appearance.
func UniqueValues(values []data.Value) []data.Value {
	seen := make(map[string]struct{}, len(values))
	out := make([]data.Value, 0)
	for _, v := range values {
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func hasNullish(values []data.Value) bool {
	for _, v := range values {
		if v.IsNull() {
			return true
		}
		if s, ok := v.AsText(); ok && s == "" {
			return true
		}
	}
	return false
}

// ClassifyTable classifies every column of t, in parallel across columns.
// Results follow table column order.
func ClassifyTable(ctx context.Context, t *data.Table, opt Options) ([]ColumnMetadata, error) {
	out := make([]ColumnMetadata, len(t.Columns))
	g, ctx := errgroup.WithContext(ctx)
	if opt.Workers > 0 {
		g.SetLimit(opt.Workers)
	}
	for i, col := range t.Columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("classify %q: %w", col.Name, err)
			}
			md := Classify(col.Name, col.Values, opt)
			slog.Debug("classified column", "column", col.Name, "meaning_type", md.MeaningType,
				"values", len(col.Values), "unique", md.NumberOfUniqueValues)
			out[i] = md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
