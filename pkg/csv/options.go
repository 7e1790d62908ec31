// Package csv implements the CSV parsing and type-inference engine.
//
// A read is a single synchronous pass: tokenize the input window into rows,
// classify rows (header/data/skip), resolve the schema, then convert every
// accepted field into its typed column. Byte ranges allow independent,
// embarrassingly parallel window reads whose concatenation reproduces a
// full-file parse.
package csv

import (
	"github.com/ajitpratap0/csvtable/pkg/errors"
)

// HeaderMode selects how the header row is resolved.
type HeaderMode int

const (
	// HeaderInfer consumes the first row after skiprows as header only if
	// none of its fields parse as a typed (non-string) value; a
	// numeric-looking first row is data and columns are auto-named.
	HeaderInfer HeaderMode = iota
	// HeaderNone treats every row as data; columns are auto-named.
	HeaderNone
	// HeaderRow selects an explicit 0-based row (after skiprows) as the
	// header, discarding rows before it.
	HeaderRow
)

// Header specifies the header resolution mode and, for HeaderRow, the row.
type Header struct {
	Mode HeaderMode
	Row  int
}

// InferHeader returns the default header specification.
func InferHeader() Header { return Header{Mode: HeaderInfer} }

// NoHeader disables header consumption.
func NoHeader() Header { return Header{Mode: HeaderNone} }

// HeaderAt selects row n (0-based, after skiprows) as the header.
func HeaderAt(n int) Header { return Header{Mode: HeaderRow, Row: n} }

// ColumnRef identifies a column by name or by position.
type ColumnRef struct {
	name  string
	pos   int
	byPos bool
	set   bool
}

// ByName references a column by its resolved name.
func ByName(name string) ColumnRef { return ColumnRef{name: name, set: true} }

// ByPos references a column by 0-based position.
func ByPos(pos int) ColumnRef { return ColumnRef{pos: pos, byPos: true, set: true} }

// IsSet reports whether the reference names a column at all. The zero value
// is unset, which makes index_col=False-style no-ops representable.
func (r ColumnRef) IsSet() bool { return r.set }

// ByteRange is a contiguous input window identified by offset and length.
// A window parses bytes [Offset, Offset+Length) plus enough trailing bytes
// to finish a row that starts inside the window.
type ByteRange struct {
	Offset int64
	Length int64
}

// ParseOptions configures a read. The zero value of most fields means
// "default"; use DefaultOptions as a starting point.
type ParseOptions struct {
	// Delimiter is the single-byte field separator. Zero requests
	// autodetection from the candidate set {',', ';', '\t', '|',
	// whitespace}. Mutually exclusive with DelimWhitespace.
	Delimiter byte
	// DelimWhitespace treats any run of spaces/tabs as one separator.
	DelimWhitespace bool
	// QuoteChar is the quoting byte, '"' by default.
	QuoteChar byte
	// Quoting enables quote handling.
	Quoting bool
	// CommentChar drops lines whose first non-whitespace byte matches.
	// Zero disables comment handling.
	CommentChar byte
	// SkipBlankLines drops empty lines before row counting. When false an
	// empty line yields a single-field NA row.
	SkipBlankLines bool

	// Header selects header resolution. Supplying Names switches
	// HeaderInfer to no-header.
	Header Header
	// Skiprows removes this many rows before header/data consideration.
	Skiprows int
	// Skipfooter removes this many trailing rows; requires a full pass and
	// cannot combine with Nrows or a byte range.
	Skipfooter int
	// Nrows bounds the number of data rows; -1 means unlimited. Reading
	// stops immediately once satisfied.
	Nrows int
	// Names supplies explicit column names.
	Names []string
	// Prefix names auto-generated columns as Prefix + column index.
	Prefix string

	// DTypes assigns dtypes by position (dtype names; see columnar.ParseDType).
	DTypes []string
	// DTypeMap assigns dtypes by column name; unnamed columns are inferred.
	DTypeMap map[string]string

	// Decimal is the fractional separator, '.' by default.
	Decimal byte
	// Thousands, when non-zero, is stripped from digit runs before
	// numeric conversion.
	Thousands byte

	// TrueValues and FalseValues extend the default boolean token sets.
	TrueValues  []string
	FalseValues []string
	// NAValues extends the NA token set.
	NAValues []string
	// KeepDefaultNA keeps the built-in NA token set active.
	KeepDefaultNA bool
	// NAFilter enables NA detection entirely.
	NAFilter bool

	// DayFirst resolves ambiguous d/m vs m/d dates as day-first.
	DayFirst bool

	// UseCols restricts output to the referenced columns; unselected
	// columns are skipped over, never converted.
	UseCols []ColumnRef
	// IndexCol marks one column as the index. It stays in the table but is
	// excluded from DataColumns.
	IndexCol ColumnRef

	// Range restricts the read to one byte window. Nil reads everything.
	Range *ByteRange
}

// DefaultOptions returns options matching the conventional CSV dialect:
// comma-delimited, double-quoted, blank lines skipped, header inferred,
// default NA handling on.
func DefaultOptions() ParseOptions {
	return ParseOptions{
		Delimiter:      ',',
		QuoteChar:      '"',
		Quoting:        true,
		SkipBlankLines: true,
		Header:         InferHeader(),
		Nrows:          -1,
		Decimal:        '.',
		KeepDefaultNA:  true,
		NAFilter:       true,
	}
}

// Validate checks the option set eagerly, before any byte is read.
func (o *ParseOptions) Validate() error {
	if o.DelimWhitespace && o.Delimiter != 0 {
		return errors.New(errors.ErrorTypeConfig,
			"delimiter and delim_whitespace cannot be used together")
	}
	if o.Skipfooter < 0 || o.Skiprows < 0 {
		return errors.New(errors.ErrorTypeConfig,
			"skiprows and skipfooter must be non-negative")
	}
	if o.Skipfooter > 0 && o.Nrows >= 0 {
		// Footer skipping needs the full input; nrows terminates early.
		return errors.New(errors.ErrorTypeConfig,
			"skipfooter and nrows cannot be used together")
	}
	if o.Skipfooter > 0 && o.Range != nil {
		return errors.New(errors.ErrorTypeConfig,
			"skipfooter cannot be used with a byte range")
	}
	if o.Range != nil && (o.Range.Offset < 0 || o.Range.Length <= 0) {
		return errors.New(errors.ErrorTypeConfig,
			"byte range offset must be non-negative and length positive")
	}
	if o.Decimal != 0 && o.Decimal == o.Thousands {
		return errors.New(errors.ErrorTypeConfig,
			"decimal and thousands separators must differ")
	}
	if !o.DelimWhitespace && o.Delimiter != 0 {
		if o.Quoting && o.Delimiter == o.QuoteChar {
			return errors.New(errors.ErrorTypeConfig,
				"delimiter and quote character must differ")
		}
		if o.CommentChar != 0 && o.Delimiter == o.CommentChar {
			return errors.New(errors.ErrorTypeConfig,
				"delimiter and comment character must differ")
		}
	}
	if len(o.DTypes) > 0 && len(o.DTypeMap) > 0 {
		return errors.New(errors.ErrorTypeConfig,
			"dtypes may be given by position or by name, not both")
	}
	for _, ref := range o.UseCols {
		if !ref.IsSet() {
			return errors.New(errors.ErrorTypeConfig, "usecols contains an empty column reference")
		}
	}
	return nil
}
