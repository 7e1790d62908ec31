package csv

import (
	"strconv"

	"github.com/ajitpratap0/csvtable/pkg/columnar"
	"github.com/ajitpratap0/csvtable/pkg/errors"
	stringpool "github.com/ajitpratap0/csvtable/pkg/strings"
)

// columnCountSample bounds the number of data rows scanned when the column
// count must be detected without a header.
const columnCountSample = 1000

// resolvedSchema is the fixed output layout for one read: the (usecols
// restricted) schema, the source column index backing each output column,
// and the index column position.
type resolvedSchema struct {
	schema   columnar.Schema
	source   []int
	indexCol int
}

// resolveSchema fixes column count, names and dtypes from the header row
// and/or a value sample, then applies usecols and index_col.
func resolveSchema(rs *rowSet, opts *ParseOptions, vp *valueParser) (*resolvedSchema, error) {
	count, err := resolveColumnCount(rs, opts)
	if err != nil {
		return nil, err
	}

	names, err := resolveNames(rs, opts, count)
	if err != nil {
		return nil, err
	}

	dtypes, err := resolveDTypes(rs, opts, names, vp)
	if err != nil {
		return nil, err
	}

	fields := make([]columnar.Field, count)
	for i := range fields {
		fields[i] = columnar.Field{Name: names[i], DType: dtypes[i]}
	}
	full := columnar.Schema{Fields: fields}

	return restrictSchema(full, opts)
}

func resolveColumnCount(rs *rowSet, opts *ParseOptions) (int, error) {
	switch {
	case rs.header != nil:
		return len(rs.header), nil
	case len(opts.Names) > 0:
		return len(opts.Names), nil
	}

	max := 0
	for i, r := range rs.rows {
		if i == columnCountSample {
			break
		}
		if len(r) > max {
			max = len(r)
		}
	}
	if max > 0 {
		return max, nil
	}
	if len(opts.DTypes) > 0 {
		// zero data rows with explicit dtypes still yields a valid
		// 0-row, n-column table
		return len(opts.DTypes), nil
	}
	return 0, errors.New(errors.ErrorTypeSchema,
		"input has no data rows and no explicit dtypes; cannot resolve a schema")
}

func resolveNames(rs *rowSet, opts *ParseOptions, count int) ([]string, error) {
	if len(opts.Names) > 0 {
		if len(opts.Names) != count {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"%d names given for %d columns", len(opts.Names), count)
		}
		return mangleNames(opts.Names), nil
	}

	names := make([]string, count)
	if rs.header != nil {
		for i, b := range rs.header {
			if len(b) == 0 {
				names[i] = "Unnamed: " + strconv.Itoa(i)
				continue
			}
			names[i] = stringpool.Clone(stringpool.BytesToString(b))
		}
		return mangleNames(names), nil
	}

	for i := range names {
		if opts.Prefix != "" {
			names[i] = opts.Prefix + strconv.Itoa(i)
		} else {
			names[i] = strconv.Itoa(i)
		}
	}
	return names, nil
}

// mangleNames disambiguates duplicate names by appending ".1", ".2" and so
// on, left to right, keeping the first occurrence unmodified.
func mangleNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			out[i] = name
			continue
		}
		mangled := name + "." + strconv.Itoa(n)
		for seen[mangled] > 0 {
			n++
			seen[name] = n + 1
			mangled = name + "." + strconv.Itoa(n)
		}
		seen[mangled] = 1
		out[i] = mangled
	}
	return out
}

func resolveDTypes(rs *rowSet, opts *ParseOptions, names []string, vp *valueParser) ([]columnar.DType, error) {
	count := len(names)
	dtypes := make([]columnar.DType, count)
	known := make([]bool, count)

	if len(opts.DTypes) > 0 {
		if len(opts.DTypes) != count {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"%d dtypes given for %d columns", len(opts.DTypes), count)
		}
		for i, name := range opts.DTypes {
			d, err := columnar.ParseDType(name)
			if err != nil {
				return nil, err
			}
			dtypes[i] = d
			known[i] = true
		}
		return dtypes, nil
	}

	for i, name := range names {
		if spec, ok := opts.DTypeMap[name]; ok {
			d, err := columnar.ParseDType(spec)
			if err != nil {
				return nil, err
			}
			dtypes[i] = d
			known[i] = true
		}
	}

	needInfer := false
	for _, k := range known {
		if !k {
			needInfer = true
			break
		}
	}
	if !needInfer {
		return dtypes, nil
	}
	if len(rs.rows) == 0 {
		return nil, errors.New(errors.ErrorTypeSchema,
			"input has no data rows; cannot infer column dtypes")
	}

	for i := range dtypes {
		if !known[i] {
			dtypes[i] = vp.inferColumn(rs.rows, i)
		}
	}
	return dtypes, nil
}

// inferColumn classifies column c by sampling its non-NA values, trying
// Int64, Float64, Bool and Date in order. A column with no non-NA values
// is Float64, the conventional all-missing representation.
func (v *valueParser) inferColumn(rows [][][]byte, c int) columnar.DType {
	okInt, okFloat, okBool, okDate := true, true, true, true
	seen := false

	for _, r := range rows {
		if c >= len(r) {
			continue
		}
		s := stringpool.BytesToString(r[c])
		if v.isNA(s) {
			continue
		}
		seen = true

		if okInt {
			_, okInt = v.tryInt(s, 64)
		}
		if okFloat {
			_, okFloat = v.tryFloat(s)
		}
		if okBool {
			okBool = v.isTrue(s) || v.isFalse(s)
		}
		if okDate {
			_, err := parseDate(s, v.opts.DayFirst)
			okDate = err == nil
		}
		if !okInt && !okFloat && !okBool && !okDate {
			return columnar.Str
		}
	}

	switch {
	case !seen:
		return columnar.Float64
	case okInt:
		return columnar.Int64
	case okFloat:
		return columnar.Float64
	case okBool:
		return columnar.Bool
	case okDate:
		return columnar.Date
	default:
		return columnar.Str
	}
}

// restrictSchema applies usecols and resolves index_col within the
// restricted layout.
func restrictSchema(full columnar.Schema, opts *ParseOptions) (*resolvedSchema, error) {
	keep := make([]bool, full.Len())
	if len(opts.UseCols) == 0 {
		for i := range keep {
			keep[i] = true
		}
	} else {
		for _, ref := range opts.UseCols {
			i, err := resolveRef(full, ref)
			if err != nil {
				return nil, err
			}
			keep[i] = true
		}
	}

	out := &resolvedSchema{indexCol: -1}
	for i, f := range full.Fields {
		if keep[i] {
			out.schema.Fields = append(out.schema.Fields, f)
			out.source = append(out.source, i)
		}
	}

	if opts.IndexCol.IsSet() {
		i, err := resolveRef(out.schema, opts.IndexCol)
		if err != nil {
			return nil, err
		}
		out.indexCol = i
	}
	return out, nil
}

func resolveRef(s columnar.Schema, ref ColumnRef) (int, error) {
	if ref.byPos {
		if ref.pos < 0 || ref.pos >= s.Len() {
			return 0, errors.Newf(errors.ErrorTypeConfig,
				"column position %d out of range (%d columns)", ref.pos, s.Len())
		}
		return ref.pos, nil
	}
	i := s.FieldIndex(ref.name)
	if i < 0 {
		return 0, errors.Newf(errors.ErrorTypeConfig, "unknown column %q", ref.name)
	}
	return i, nil
}
