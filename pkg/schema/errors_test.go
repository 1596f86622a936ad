package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrCodeValidation, "something broke")
	assert.Equal(t, "[VALIDATION_ERROR] something broke", err.Error())

	err = err.WithMachine("orders")
	assert.Equal(t, "[VALIDATION_ERROR] machine orders: something broke", err.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewErrorf(ErrCodeStore, "save failed").WithCause(cause)

	assert.ErrorIs(t, err, cause)

	var structured *Error
	assert.ErrorAs(t, error(err), &structured)
	assert.Equal(t, ErrCodeStore, structured.Code)
}

func TestErrorDetails(t *testing.T) {
	err := NewError(ErrCodeGuard, "guard rejected").
		WithDetails(map[string]any{"expression": "input.x > 1"})

	assert.Equal(t, "input.x > 1", err.Details["expression"])
}
