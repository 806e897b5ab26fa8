package metadata

import (
	"fmt"

	"github.com/KaramelBytes/metamon-cli/internal/data"
)

// storageOrder fixes the iteration order of reported storage types.
var storageOrder = []StorageType{StorageBoolean, StorageNull, StorageNumber, StorageString}

// StorageTypes returns the storage kinds present among values, alphabetically.
func StorageTypes(values []data.Value) []StorageType {
	seen := make(map[StorageType]bool, len(storageOrder))
	for _, v := range values {
		seen[storageTypeOf(v)] = true
	}
	out := make([]StorageType, 0, len(seen))
	for _, st := range storageOrder {
		if seen[st] {
			out = append(out, st)
		}
	}
	return out
}

func storageTypeOf(v data.Value) StorageType {
	switch v.Kind() {
	case data.KindNull:
		return StorageNull
	case data.KindBool:
		return StorageBoolean
	case data.KindText:
		return StorageString
	case data.KindNumber:
		return StorageNumber
	default:
		panic(fmt.Sprintf("metadata: unsupported value kind %s", v.Kind()))
	}
}
