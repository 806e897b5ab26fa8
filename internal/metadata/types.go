// Package metadata infers per-column descriptive metadata: a meaning type,
// the storage types present, unique values and, for numeric columns,
// order statistics and bucket boundaries.
package metadata

import (
	"github.com/KaramelBytes/metamon-cli/internal/data"
	"github.com/shopspring/decimal"
)

// MeaningType is the inferred semantic category of a column.
type MeaningType string

const (
	Empty       MeaningType = "empty"
	Binary      MeaningType = "binary"
	Categorical MeaningType = "categorical"
	Textual     MeaningType = "textual"
	Numeric     MeaningType = "numeric"
)

// Valid reports whether m is one of the five meaning types.
func (m MeaningType) Valid() bool {
	switch m {
	case Empty, Binary, Categorical, Textual, Numeric:
		return true
	}
	return false
}

// StorageType is the primitive representation kind of a raw value.
type StorageType string

const (
	StorageBoolean StorageType = "boolean"
	StorageNull    StorageType = "null"
	StorageNumber  StorageType = "number"
	StorageString  StorageType = "string"
)

// TruncatedMarker is appended to encoded unique value lists that were cut at the cap.
const TruncatedMarker = "TRUNCATED"

// ColumnMetadata is the inference result for one column.
// Only Name and MeaningType are set for Empty columns; Buckets, Min, Median
// and Max are only set for Numeric columns.
type ColumnMetadata struct {
	Name        string
	MeaningType MeaningType

	StorageTypes []StorageType
	// UniqueValues is capped at Options.MaxUniqueValues; Truncated records the cut.
	UniqueValues         []data.Value
	Truncated            bool
	NumberOfUniqueValues int
	Nullable             bool

	Buckets []decimal.Decimal
	Min     decimal.Decimal
	Median  decimal.Decimal
	Max     decimal.Decimal
}
