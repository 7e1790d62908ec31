package columnar

import (
	"time"

	"github.com/ajitpratap0/csvtable/pkg/errors"
)

// Column is the read interface over a finalized typed column.
// Value returns nil for missing entries.
type Column interface {
	DType() DType
	Len() int
	Value(i int) interface{}
	Valid(i int) bool
	NullCount() int

	// appendSame appends all entries of a column with the same dtype.
	// Used when concatenating byte-range results in offset order.
	appendSame(o Column) error
}

// NewColumn creates an empty column builder for the given dtype.
func NewColumn(d DType) Column {
	switch d {
	case Int32:
		return &Int32Column{}
	case Int64:
		return &Int64Column{}
	case Float32:
		return &Float32Column{}
	case Float64:
		return &Float64Column{}
	case Bool:
		return &BoolColumn{}
	case Date:
		return &DateColumn{}
	case Category:
		return &CategoryColumn{}
	default:
		return &StrColumn{}
	}
}

func mismatch(want DType, got Column) error {
	return errors.Newf(errors.ErrorTypeInternal,
		"cannot append %s column to %s column", got.DType(), want)
}

// Int32Column stores 32-bit integers.
type Int32Column struct {
	values   []int32
	validity Bitmap
}

func (c *Int32Column) DType() DType   { return Int32 }
func (c *Int32Column) Len() int       { return len(c.values) }
func (c *Int32Column) Valid(i int) bool { return c.validity.Valid(i) }
func (c *Int32Column) NullCount() int { return c.validity.NullCount() }

// Append adds a value; valid=false records an NA entry.
func (c *Int32Column) Append(v int32, valid bool) {
	c.values = append(c.values, v)
	c.validity.Append(valid)
}

// Values returns the raw backing slice, including placeholder entries at
// NA positions.
func (c *Int32Column) Values() []int32 { return c.values }

func (c *Int32Column) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return c.values[i]
}

func (c *Int32Column) appendSame(o Column) error {
	oc, ok := o.(*Int32Column)
	if !ok {
		return mismatch(Int32, o)
	}
	c.values = append(c.values, oc.values...)
	c.validity.appendAll(&oc.validity)
	return nil
}

// Int64Column stores 64-bit integers.
type Int64Column struct {
	values   []int64
	validity Bitmap
}

func (c *Int64Column) DType() DType     { return Int64 }
func (c *Int64Column) Len() int         { return len(c.values) }
func (c *Int64Column) Valid(i int) bool { return c.validity.Valid(i) }
func (c *Int64Column) NullCount() int   { return c.validity.NullCount() }
func (c *Int64Column) Values() []int64  { return c.values }

func (c *Int64Column) Append(v int64, valid bool) {
	c.values = append(c.values, v)
	c.validity.Append(valid)
}

func (c *Int64Column) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return c.values[i]
}

func (c *Int64Column) appendSame(o Column) error {
	oc, ok := o.(*Int64Column)
	if !ok {
		return mismatch(Int64, o)
	}
	c.values = append(c.values, oc.values...)
	c.validity.appendAll(&oc.validity)
	return nil
}

// Float32Column stores 32-bit floats.
type Float32Column struct {
	values   []float32
	validity Bitmap
}

func (c *Float32Column) DType() DType      { return Float32 }
func (c *Float32Column) Len() int          { return len(c.values) }
func (c *Float32Column) Valid(i int) bool  { return c.validity.Valid(i) }
func (c *Float32Column) NullCount() int    { return c.validity.NullCount() }
func (c *Float32Column) Values() []float32 { return c.values }

func (c *Float32Column) Append(v float32, valid bool) {
	c.values = append(c.values, v)
	c.validity.Append(valid)
}

func (c *Float32Column) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return c.values[i]
}

func (c *Float32Column) appendSame(o Column) error {
	oc, ok := o.(*Float32Column)
	if !ok {
		return mismatch(Float32, o)
	}
	c.values = append(c.values, oc.values...)
	c.validity.appendAll(&oc.validity)
	return nil
}

// Float64Column stores 64-bit floats.
type Float64Column struct {
	values   []float64
	validity Bitmap
}

func (c *Float64Column) DType() DType      { return Float64 }
func (c *Float64Column) Len() int          { return len(c.values) }
func (c *Float64Column) Valid(i int) bool  { return c.validity.Valid(i) }
func (c *Float64Column) NullCount() int    { return c.validity.NullCount() }
func (c *Float64Column) Values() []float64 { return c.values }

func (c *Float64Column) Append(v float64, valid bool) {
	c.values = append(c.values, v)
	c.validity.Append(valid)
}

func (c *Float64Column) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return c.values[i]
}

func (c *Float64Column) appendSame(o Column) error {
	oc, ok := o.(*Float64Column)
	if !ok {
		return mismatch(Float64, o)
	}
	c.values = append(c.values, oc.values...)
	c.validity.appendAll(&oc.validity)
	return nil
}

// BoolColumn stores booleans bit-packed, 64 per word.
type BoolColumn struct {
	bits     Bitmap
	validity Bitmap
}

func (c *BoolColumn) DType() DType     { return Bool }
func (c *BoolColumn) Len() int         { return c.bits.Len() }
func (c *BoolColumn) Valid(i int) bool { return c.validity.Valid(i) }
func (c *BoolColumn) NullCount() int   { return c.validity.NullCount() }

func (c *BoolColumn) Append(v bool, valid bool) {
	c.bits.Append(v)
	c.validity.Append(valid)
}

func (c *BoolColumn) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return c.bits.Valid(i)
}

func (c *BoolColumn) appendSame(o Column) error {
	oc, ok := o.(*BoolColumn)
	if !ok {
		return mismatch(Bool, o)
	}
	c.bits.appendAll(&oc.bits)
	c.validity.appendAll(&oc.validity)
	return nil
}

// DateColumn stores timestamps as milliseconds since the Unix epoch,
// UTC-naive.
type DateColumn struct {
	millis   []int64
	validity Bitmap
}

func (c *DateColumn) DType() DType     { return Date }
func (c *DateColumn) Len() int         { return len(c.millis) }
func (c *DateColumn) Valid(i int) bool { return c.validity.Valid(i) }
func (c *DateColumn) NullCount() int   { return c.validity.NullCount() }

// Millis returns the raw millisecond values.
func (c *DateColumn) Millis() []int64 { return c.millis }

func (c *DateColumn) Append(ms int64, valid bool) {
	c.millis = append(c.millis, ms)
	c.validity.Append(valid)
}

// Value returns the entry as a UTC time.Time.
func (c *DateColumn) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return time.UnixMilli(c.millis[i]).UTC()
}

func (c *DateColumn) appendSame(o Column) error {
	oc, ok := o.(*DateColumn)
	if !ok {
		return mismatch(Date, o)
	}
	c.millis = append(c.millis, oc.millis...)
	c.validity.appendAll(&oc.validity)
	return nil
}

// CategoryColumn stores stable 32-bit hash codes of string values.
type CategoryColumn struct {
	codes    []int32
	validity Bitmap
}

func (c *CategoryColumn) DType() DType     { return Category }
func (c *CategoryColumn) Len() int         { return len(c.codes) }
func (c *CategoryColumn) Valid(i int) bool { return c.validity.Valid(i) }
func (c *CategoryColumn) NullCount() int   { return c.validity.NullCount() }
func (c *CategoryColumn) Codes() []int32   { return c.codes }

func (c *CategoryColumn) Append(code int32, valid bool) {
	c.codes = append(c.codes, code)
	c.validity.Append(valid)
}

func (c *CategoryColumn) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return c.codes[i]
}

func (c *CategoryColumn) appendSame(o Column) error {
	oc, ok := o.(*CategoryColumn)
	if !ok {
		return mismatch(Category, o)
	}
	c.codes = append(c.codes, oc.codes...)
	c.validity.appendAll(&oc.validity)
	return nil
}

// StrColumn stores string values verbatim.
type StrColumn struct {
	values   []string
	validity Bitmap
}

func (c *StrColumn) DType() DType     { return Str }
func (c *StrColumn) Len() int         { return len(c.values) }
func (c *StrColumn) Valid(i int) bool { return c.validity.Valid(i) }
func (c *StrColumn) NullCount() int   { return c.validity.NullCount() }
func (c *StrColumn) Values() []string { return c.values }

func (c *StrColumn) Append(v string, valid bool) {
	c.values = append(c.values, v)
	c.validity.Append(valid)
}

func (c *StrColumn) Value(i int) interface{} {
	if !c.validity.Valid(i) {
		return nil
	}
	return c.values[i]
}

func (c *StrColumn) appendSame(o Column) error {
	oc, ok := o.(*StrColumn)
	if !ok {
		return mismatch(Str, o)
	}
	c.values = append(c.values, oc.values...)
	c.validity.appendAll(&oc.validity)
	return nil
}
