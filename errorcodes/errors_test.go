package errorcodes

import (
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestErrorMessage checks the rendering of codes, fields and causes.
func TestErrorMessage(t *testing.T) {
	err := New(INVALID_PARAMETER, "value out of range").WithField("amount")
	assert.Equal(t, "INVALID_PARAMETER: amount: value out of range", err.Error())

	err = Newf(FUNCTION_NOT_FOUND, "no function matches %q", "foo()")
	assert.Equal(t, `FUNCTION_NOT_FOUND: no function matches "foo()"`, err.Error())
	assert.Empty(t, err.Field)

	wrapped := Wrap(io.ErrUnexpectedEOF, DECODING_FAILED, "truncated calldata")
	assert.Equal(t, "DECODING_FAILED: truncated calldata: unexpected EOF", wrapped.Error())
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

// TestGetErrorCode checks that codes are found through wrapping layers.
func TestGetErrorCode(t *testing.T) {
	code, ok := GetErrorCode(fmt.Errorf("building action: %w", New(INVALID_ADDRESS, "bad address")))
	assert.True(t, ok)
	assert.Equal(t, INVALID_ADDRESS, code)

	assert.True(t, Is(errors.Wrap(New(ENCODING_FAILED, "x"), "context"), ENCODING_FAILED))
	assert.False(t, Is(New(ENCODING_FAILED, "x"), DECODING_FAILED))

	_, ok = GetErrorCode(errors.New("plain"))
	assert.False(t, ok)
	_, ok = GetErrorCode(nil)
	assert.False(t, ok)
}

// TestWithFieldCopies checks that attributing a field leaves the original error untouched.
func TestWithFieldCopies(t *testing.T) {
	base := New(INVALID_PARAMETER, "invalid")
	withField := base.WithField("to")
	assert.Empty(t, base.Field)
	assert.Equal(t, "to", withField.Field)
}
