package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/csvtable/pkg/columnar"
)

func TestDefaultNATokens(t *testing.T) {
	opts := DefaultOptions()
	vp := newValueParser(&opts)

	for _, tok := range []string{"", "NA", "NULL", "NaN", "#N/A", "n/a", "-1.#IND"} {
		assert.True(t, vp.isNA(tok), "token %q", tok)
	}
	for _, tok := range []string{"0", "na ", "none", "Null"} {
		assert.False(t, vp.isNA(tok), "token %q", tok)
	}
}

func TestKeepDefaultNADisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepDefaultNA = false
	vp := newValueParser(&opts)

	assert.False(t, vp.isNA("NA"))
	assert.False(t, vp.isNA("NULL"))
	// empty fields stay missing regardless
	assert.True(t, vp.isNA(""))
}

func TestCustomNAValues(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepDefaultNA = false
	opts.NAValues = []string{"missing", "-999"}
	vp := newValueParser(&opts)

	assert.True(t, vp.isNA("missing"))
	assert.True(t, vp.isNA("-999"))
	assert.False(t, vp.isNA("NA"))
}

func TestNAFilterDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.NAFilter = false
	vp := newValueParser(&opts)

	assert.False(t, vp.isNA("NA"))
	assert.True(t, vp.isNA(""))
}

func TestBooleanTokens(t *testing.T) {
	opts := DefaultOptions()
	opts.TrueValues = []string{"yes", "Y"}
	opts.FalseValues = []string{"no", "N"}
	vp := newValueParser(&opts)

	for _, tok := range []string{"true", "True", "TRUE", "yes", "YES", "y"} {
		assert.True(t, vp.isTrue(tok), "token %q", tok)
	}
	for _, tok := range []string{"false", "False", "FALSE", "no", "n"} {
		assert.True(t, vp.isFalse(tok), "token %q", tok)
	}

	// numeric strings are never boolean tokens
	assert.False(t, vp.isTrue("1"))
	assert.False(t, vp.isFalse("0"))
	assert.False(t, vp.isTrue("3977"))
}

func TestNumericSeparators(t *testing.T) {
	opts := DefaultOptions()
	opts.Decimal = ','
	opts.Thousands = '\''
	vp := newValueParser(&opts)

	f, ok := vp.tryFloat("1'234,56")
	require.True(t, ok)
	assert.InDelta(t, 1234.56, f, 1e-9)

	n, ok := vp.tryInt("12'345", 64)
	require.True(t, ok)
	assert.Equal(t, int64(12345), n)

	_, ok = vp.tryInt("1,5", 64)
	assert.False(t, ok, "fractional content must not parse as integer")
}

func TestScientificNotation(t *testing.T) {
	opts := DefaultOptions()
	vp := newValueParser(&opts)

	f, ok := vp.tryFloat("1.5e3")
	require.True(t, ok)
	assert.InDelta(t, 1500.0, f, 1e-9)

	f, ok = vp.tryFloat("-2.5E-2")
	require.True(t, ok)
	assert.InDelta(t, -0.025, f, 1e-9)
}

func TestCategoryHashReferenceVector(t *testing.T) {
	refs := map[string]int32{
		"HBM0676": 2022314536,
		"KRC0842": -189888986,
		"ILM1441": 1512937027,
		"EJV0094": 397836265,
	}
	for s, want := range refs {
		assert.Equal(t, want, hashCategory([]byte(s)), "value %q", s)
	}
}

func TestCategoryHashDeterminism(t *testing.T) {
	a := hashCategory([]byte("alpha"))
	b := hashCategory([]byte("alpha"))
	c := hashCategory([]byte("beta"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestConverterBoolTokensIntoIntColumn(t *testing.T) {
	opts := DefaultOptions()
	vp := newValueParser(&opts)

	col := columnar.NewColumn(columnar.Int32).(*columnar.Int32Column)
	conv := vp.converter(col)

	require.NoError(t, conv([]byte("True"), true))
	require.NoError(t, conv([]byte("False"), true))
	require.NoError(t, conv([]byte("7"), true))

	assert.Equal(t, []int32{1, 0, 7}, col.Values())
}

func TestConverterConversionFailure(t *testing.T) {
	opts := DefaultOptions()
	vp := newValueParser(&opts)

	col := columnar.NewColumn(columnar.Int64).(*columnar.Int64Column)
	conv := vp.converter(col)
	err := conv([]byte("not-a-number"), true)
	require.Error(t, err)
}

func TestConverterMissingField(t *testing.T) {
	opts := DefaultOptions()
	vp := newValueParser(&opts)

	col := columnar.NewColumn(columnar.Float64).(*columnar.Float64Column)
	conv := vp.converter(col)

	require.NoError(t, conv(nil, false))
	require.NoError(t, conv([]byte("2.5"), true))

	assert.Equal(t, 1, col.NullCount())
	assert.False(t, col.Valid(0))
	assert.True(t, col.Valid(1))
}
