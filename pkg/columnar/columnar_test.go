package columnar

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmap(t *testing.T) {
	var b Bitmap
	pattern := []bool{true, false, true, true, false}
	for i := 0; i < 100; i++ {
		b.Append(pattern[i%len(pattern)])
	}

	require.Equal(t, 100, b.Len())
	nulls := 0
	for i := 0; i < 100; i++ {
		assert.Equal(t, pattern[i%len(pattern)], b.Valid(i), "bit %d", i)
		if !pattern[i%len(pattern)] {
			nulls++
		}
	}
	assert.Equal(t, nulls, b.NullCount())
}

func TestDTypeRoundTrip(t *testing.T) {
	for _, d := range []DType{Int32, Int64, Float32, Float64, Bool, Date, Category, Str} {
		got, err := ParseDType(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestParseDTypeAliases(t *testing.T) {
	tests := map[string]DType{
		"int":       Int32,
		"long":      Int64,
		"float":     Float32,
		"double":    Float64,
		"boolean":   Bool,
		"datetime":  Date,
		"timestamp": Date,
		"string":    Str,
		" Int64 ":   Int64,
	}
	for name, want := range tests {
		got, err := ParseDType(name)
		require.NoError(t, err, "alias %q", name)
		assert.Equal(t, want, got, "alias %q", name)
	}

	_, err := ParseDType("decimal")
	require.Error(t, err)
}

func TestColumnsAppendAndValue(t *testing.T) {
	ic := NewColumn(Int64).(*Int64Column)
	ic.Append(7, true)
	ic.Append(0, false)
	assert.Equal(t, int64(7), ic.Value(0))
	assert.Nil(t, ic.Value(1))
	assert.Equal(t, 1, ic.NullCount())

	bc := NewColumn(Bool).(*BoolColumn)
	bc.Append(true, true)
	bc.Append(false, true)
	bc.Append(false, false)
	assert.Equal(t, true, bc.Value(0))
	assert.Equal(t, false, bc.Value(1))
	assert.Nil(t, bc.Value(2))

	dc := NewColumn(Date).(*DateColumn)
	dc.Append(86400000, true)
	assert.Equal(t, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), dc.Value(0))

	cc := NewColumn(Category).(*CategoryColumn)
	cc.Append(-5, true)
	assert.Equal(t, []int32{-5}, cc.Codes())

	sc := NewColumn(Str).(*StrColumn)
	sc.Append("x", true)
	assert.Equal(t, "x", sc.Value(0))
}

func makeTable(t *testing.T, vals ...int64) *Table {
	t.Helper()
	schema := Schema{Fields: []Field{{Name: "v", DType: Int64}}}
	tbl := NewTable(schema)
	col := tbl.Columns[0].(*Int64Column)
	for _, v := range vals {
		col.Append(v, true)
	}
	return tbl
}

func TestConcat(t *testing.T) {
	got, err := Concat(makeTable(t, 1, 2), makeTable(t), makeTable(t, 3))
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []int64{1, 2, 3}, got.Columns[0].(*Int64Column).Values())
}

func TestConcatSchemaMismatch(t *testing.T) {
	a := makeTable(t, 1)
	b := NewTable(Schema{Fields: []Field{{Name: "v", DType: Float64}}})
	_, err := Concat(a, b)
	require.Error(t, err)

	c := NewTable(Schema{Fields: []Field{{Name: "other", DType: Int64}}})
	_, err = Concat(makeTable(t, 1), c)
	require.Error(t, err)
}

func TestTableAccessors(t *testing.T) {
	schema := Schema{Fields: []Field{
		{Name: "id", DType: Int64},
		{Name: "v", DType: Str},
	}}
	tbl := NewTable(schema)
	tbl.Columns[0].(*Int64Column).Append(1, true)
	tbl.Columns[1].(*StrColumn).Append("x", true)

	assert.Equal(t, 1, tbl.Len())
	assert.NotNil(t, tbl.Column("id"))
	assert.Nil(t, tbl.Column("missing"))
	assert.Equal(t, map[string]interface{}{"id": int64(1), "v": "x"}, tbl.RowValues(0))

	tbl.IndexCol = 0
	require.Len(t, tbl.DataColumns(), 1)
}

func TestSchemaJSON(t *testing.T) {
	schema := Schema{Fields: []Field{{Name: "id", DType: Int64}}}
	out, err := json.Marshal(&schema)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"id","dtype":"int64"}]`, string(out))
}

func TestTableJSON(t *testing.T) {
	tbl := makeTable(t, 1, 2)
	tbl.IndexCol = 0
	out, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"schema":[{"name":"v","dtype":"int64"}],"num_rows":2,"index_col":"v"}`,
		string(out))
}
