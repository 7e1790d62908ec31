package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndType(t *testing.T) {
	err := New(ErrorTypeConfig, "bad option")
	require.Error(t, err)
	assert.True(t, IsType(err, ErrorTypeConfig))
	assert.False(t, IsType(err, ErrorTypeConversion))
	assert.Contains(t, err.Error(), "bad option")
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeConversion, "cannot convert %q", "x")
	assert.Contains(t, err.Error(), `cannot convert "x"`)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, ErrorTypeIO, "read failed")

	assert.True(t, IsType(err, ErrorTypeIO))
	assert.ErrorIs(t, err, cause)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeConversion, "bad field").
		WithDetail("row", 3).
		WithDetail("column", "id")

	assert.Equal(t, 3, Detail(err, "row"))
	assert.Equal(t, "id", Detail(err, "column"))
	assert.Nil(t, Detail(err, "missing"))
}

func TestDetailOnForeignError(t *testing.T) {
	assert.Nil(t, Detail(fmt.Errorf("plain"), "row"))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeIO))
	assert.False(t, IsType(nil, ErrorTypeIO))
}

func TestStackCaptured(t *testing.T) {
	err := New(ErrorTypeInternal, "boom")
	assert.NotEmpty(t, err.Stack)
}
