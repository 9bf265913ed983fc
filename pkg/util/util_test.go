package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapErrorf(t *testing.T) {
	base := errors.New("base")
	err := WrapErrorf(base, ErrBadParamInput, "parse %s", "x")

	assert.Equal(t, "parse x: base", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ErrBadParamInput, ErrorCode(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, ErrBadParamInput, ErrorCode(wrapped))
	assert.Equal(t, ErrInternalServerError, ErrorCode(base))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, ClampInt(-3, 0, 9))
	assert.Equal(t, 9, ClampInt(12, 0, 9))
	assert.Equal(t, 4, ClampInt(4, 0, 9))
}

func TestValidateStruct(t *testing.T) {
	type options struct {
		Iterations int     `validate:"gt=0"`
		Alpha      float64 `validate:"gt=0,lt=1"`
	}

	require.NoError(t, ValidateStruct(options{Iterations: 10, Alpha: 0.05}))

	err := ValidateStruct(options{Iterations: 0, Alpha: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Iterations must be greater than 0")
	assert.Contains(t, err.Error(), "Alpha must be less than 1")
}
