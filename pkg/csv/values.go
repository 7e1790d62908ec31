package csv

import (
	"strconv"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/ajitpratap0/csvtable/pkg/columnar"
	"github.com/ajitpratap0/csvtable/pkg/errors"
	stringpool "github.com/ajitpratap0/csvtable/pkg/strings"
)

// categoryHashSeed is the fixed MurmurHash3 x86_32 seed for category
// columns. Equal strings map to equal codes in any run or process.
const categoryHashSeed = 33

// defaultNATokens is the built-in NA token set, active when keep_default_na
// is set. Matching is case-sensitive; the set carries the case variants
// spreadsheet exports commonly produce.
var defaultNATokens = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "N/A", "NA", "NULL", "NaN", "n/a", "nan", "null",
}

// Default boolean tokens, stored case-folded; comparison is
// case-insensitive.
var (
	defaultTrueTokens  = []string{"true"}
	defaultFalseTokens = []string{"false"}
)

// valueParser converts raw field bytes into typed values according to the
// active options. The token tables are built once per read.
type valueParser struct {
	opts   *ParseOptions
	na     map[string]struct{}
	trues  map[string]struct{}
	falses map[string]struct{}
}

func newValueParser(opts *ParseOptions) *valueParser {
	v := &valueParser{
		opts:   opts,
		na:     make(map[string]struct{}),
		trues:  make(map[string]struct{}),
		falses: make(map[string]struct{}),
	}
	if opts.KeepDefaultNA {
		for _, tok := range defaultNATokens {
			v.na[tok] = struct{}{}
		}
	}
	for _, tok := range opts.NAValues {
		v.na[tok] = struct{}{}
	}
	for _, tok := range defaultTrueTokens {
		v.trues[tok] = struct{}{}
	}
	for _, tok := range opts.TrueValues {
		v.trues[strings.ToLower(tok)] = struct{}{}
	}
	for _, tok := range defaultFalseTokens {
		v.falses[tok] = struct{}{}
	}
	for _, tok := range opts.FalseValues {
		v.falses[strings.ToLower(tok)] = struct{}{}
	}
	return v
}

// isNA reports whether a trimmed field matches the NA token tables.
// Empty fields are always NA; token matching is disabled by na_filter.
func (v *valueParser) isNA(s string) bool {
	if len(s) == 0 {
		return true
	}
	if !v.opts.NAFilter {
		return false
	}
	_, ok := v.na[s]
	return ok
}

// isTrue and isFalse match the boolean token sets, case-insensitively.
// Boolean classification is token-based only; numeric strings are never
// boolean.
func (v *valueParser) isTrue(s string) bool {
	_, ok := v.trues[strings.ToLower(s)]
	return ok
}

func (v *valueParser) isFalse(s string) bool {
	_, ok := v.falses[strings.ToLower(s)]
	return ok
}

// normalizeNumber strips the thousands separator and canonicalizes the
// decimal separator to '.'. Returns s unchanged when no rewrite is needed.
func (v *valueParser) normalizeNumber(s string) string {
	thousands := v.opts.Thousands
	decimal := v.opts.Decimal
	if decimal == 0 {
		decimal = '.'
	}
	if thousands == 0 && decimal == '.' {
		return s
	}

	b := stringpool.GetBuilder()
	defer stringpool.PutBuilder(b)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case thousands:
			// stripped
		case decimal:
			b.WriteByte('.')
		default:
			b.WriteByte(s[i])
		}
	}
	return stringpool.Clone(b.String())
}

// tryInt parses an integer with thousands handling. Fractional content is
// a failure; integer columns never accept it.
func (v *valueParser) tryInt(s string, bits int) (int64, bool) {
	norm := v.normalizeNumber(s)
	if strings.ContainsRune(norm, '.') {
		return 0, false
	}
	n, err := strconv.ParseInt(norm, 10, bits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// tryFloat parses a float with separator handling; scientific notation is
// accepted and integer-looking content converts cleanly.
func (v *valueParser) tryFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(v.normalizeNumber(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// isTyped reports whether a field classifies as any non-string type. The
// header-infer heuristic uses it: a first row containing typed values is
// data, not a header.
func (v *valueParser) isTyped(s string) bool {
	if len(s) == 0 {
		return false
	}
	if _, ok := v.tryInt(s, 64); ok {
		return true
	}
	if _, ok := v.tryFloat(s); ok {
		return true
	}
	if v.isTrue(s) || v.isFalse(s) {
		return true
	}
	if _, err := parseDate(s, v.opts.DayFirst); err == nil {
		return true
	}
	return false
}

// hashCategory computes the stable signed 32-bit category code for a
// field's content.
func hashCategory(b []byte) int32 {
	return int32(murmur3.Sum32WithSeed(b, categoryHashSeed))
}

// convFn appends one field to its column. present is false when the row is
// shorter than the schema; such entries are NA.
type convFn func(b []byte, present bool) error

func conversionError(dtype columnar.DType, s string) error {
	return errors.Newf(errors.ErrorTypeConversion,
		"cannot convert field to %s", dtype).WithDetail("field", stringpool.Clone(s))
}

// converter selects the conversion function for a column once; the same
// function runs for every row with no per-field dispatch.
func (v *valueParser) converter(col columnar.Column) convFn {
	switch c := col.(type) {
	case *columnar.Int32Column:
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				c.Append(0, false)
				return nil
			}
			if v.isTrue(s) {
				c.Append(1, true)
				return nil
			}
			if v.isFalse(s) {
				c.Append(0, true)
				return nil
			}
			n, ok := v.tryInt(s, 32)
			if !ok {
				return conversionError(columnar.Int32, s)
			}
			c.Append(int32(n), true)
			return nil
		}

	case *columnar.Int64Column:
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				c.Append(0, false)
				return nil
			}
			if v.isTrue(s) {
				c.Append(1, true)
				return nil
			}
			if v.isFalse(s) {
				c.Append(0, true)
				return nil
			}
			n, ok := v.tryInt(s, 64)
			if !ok {
				return conversionError(columnar.Int64, s)
			}
			c.Append(n, true)
			return nil
		}

	case *columnar.Float32Column:
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				c.Append(0, false)
				return nil
			}
			f, ok := v.tryFloat(s)
			if !ok {
				return conversionError(columnar.Float32, s)
			}
			c.Append(float32(f), true)
			return nil
		}

	case *columnar.Float64Column:
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				c.Append(0, false)
				return nil
			}
			f, ok := v.tryFloat(s)
			if !ok {
				return conversionError(columnar.Float64, s)
			}
			c.Append(f, true)
			return nil
		}

	case *columnar.BoolColumn:
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				c.Append(false, false)
				return nil
			}
			if v.isTrue(s) {
				c.Append(true, true)
				return nil
			}
			if v.isFalse(s) {
				c.Append(false, true)
				return nil
			}
			return conversionError(columnar.Bool, s)
		}

	case *columnar.DateColumn:
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				c.Append(0, false)
				return nil
			}
			ms, err := parseDate(s, v.opts.DayFirst)
			if err != nil {
				return conversionError(columnar.Date, s)
			}
			c.Append(ms, true)
			return nil
		}

	case *columnar.CategoryColumn:
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				c.Append(0, false)
				return nil
			}
			c.Append(hashCategory(b), true)
			return nil
		}

	default:
		sc := col.(*columnar.StrColumn)
		return func(b []byte, present bool) error {
			s := stringpool.BytesToString(b)
			if !present || v.isNA(s) {
				sc.Append("", false)
				return nil
			}
			sc.Append(stringpool.Clone(s), true)
			return nil
		}
	}
}
