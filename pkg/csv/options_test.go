package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/csvtable/pkg/errors"
)

func TestDefaultOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
}

func TestValidateConflicts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ParseOptions)
	}{
		{"delimiter with delim_whitespace", func(o *ParseOptions) {
			o.DelimWhitespace = true
		}},
		{"skipfooter with nrows", func(o *ParseOptions) {
			o.Skipfooter = 2
			o.Nrows = 5
		}},
		{"skipfooter with byte range", func(o *ParseOptions) {
			o.Skipfooter = 1
			o.Range = &ByteRange{Offset: 0, Length: 100}
		}},
		{"negative skiprows", func(o *ParseOptions) {
			o.Skiprows = -1
		}},
		{"zero-length range", func(o *ParseOptions) {
			o.Range = &ByteRange{Offset: 10, Length: 0}
		}},
		{"decimal equals thousands", func(o *ParseOptions) {
			o.Decimal = ','
			o.Thousands = ','
		}},
		{"delimiter equals quote", func(o *ParseOptions) {
			o.Delimiter = '"'
		}},
		{"delimiter equals comment", func(o *ParseOptions) {
			o.CommentChar = ','
		}},
		{"positional and named dtypes", func(o *ParseOptions) {
			o.DTypes = []string{"int64"}
			o.DTypeMap = map[string]string{"a": "int64"}
		}},
		{"empty usecols reference", func(o *ParseOptions) {
			o.UseCols = []ColumnRef{{}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestColumnRef(t *testing.T) {
	assert.False(t, ColumnRef{}.IsSet())
	assert.True(t, ByName("id").IsSet())
	assert.True(t, ByPos(0).IsSet())
}
