// Package columnar provides the typed columnar output model for parsed tables.
// A parse produces one Column per schema entry; every column carries a
// validity bitmap marking missing (NA) entries.
package columnar

import (
	"strings"

	"github.com/ajitpratap0/csvtable/pkg/errors"
)

// DType is the closed set of column data types.
type DType int

const (
	Int32 DType = iota
	Int64
	Float32
	Float64
	Bool
	Date
	Category
	Str
)

// String returns the canonical dtype name.
func (d DType) String() string {
	switch d {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case Category:
		return "category"
	case Str:
		return "str"
	default:
		return "unknown"
	}
}

// ParseDType resolves a dtype name, accepting the aliases the option
// surface has historically allowed (int, long, float, double).
func ParseDType(name string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int32", "int":
		return Int32, nil
	case "int64", "long":
		return Int64, nil
	case "float32", "float":
		return Float32, nil
	case "float64", "double":
		return Float64, nil
	case "bool", "boolean":
		return Bool, nil
	case "date", "datetime", "timestamp":
		return Date, nil
	case "category":
		return Category, nil
	case "str", "string":
		return Str, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeConfig, "unknown dtype %q", name)
	}
}

// IsNumeric reports whether the dtype is an integer or float type.
func (d DType) IsNumeric() bool {
	switch d {
	case Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}
