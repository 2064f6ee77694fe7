package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError("payment", "Add", ErrStorageWrite, "could not persist", cause)

	assert.True(t, IsStorageWrite(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsValidation(err))
	assert.Equal(t, "payment.Add: could not persist: disk full", err.Error())
}

func TestStorageWriteError(t *testing.T) {
	err := StorageWriteError("course", "Delete", "sms_courses")
	assert.True(t, IsStorageWrite(err))
	assert.Equal(t, "course.Delete: could not persist sms_courses", err.Error())
}

type sample struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Hidden string  `json:"-" validate:"omitempty,oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct("sample", "Add", sample{Name: "x", Amount: 1}))

	err := ValidateStruct("sample", "Add", sample{Amount: 0}, FieldError{Field: "date", Rule: "required"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []FieldError{
		{Field: "date", Rule: "required"},
		{Field: "name", Rule: "required"},
		{Field: "amount", Rule: "gt=0"},
	}, de.Fields)
	assert.Equal(t, "sample.Add: invalid sample (date: required; name: required; amount: gt=0)", err.Error())
}
