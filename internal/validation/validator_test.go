package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"newPassword" validate:"min=6"`
	Internal string `json:"-"`
}

func TestStructValid(t *testing.T) {
	err := Struct(&sample{Name: "A", Email: "a@example.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestStructReportsJSONNames(t *testing.T) {
	err := Struct(&sample{Email: "nope", Password: "123"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)

	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Equal(t, "name is required", verr.Fields[0].Error())
	assert.Equal(t, "email must be a valid email address", verr.Fields[1].Error())
	assert.Equal(t, "newPassword must be at least 6 characters", verr.Fields[2].Error())
	assert.Contains(t, err.Error(), "; ")
}

func TestEchoAdapter(t *testing.T) {
	assert.Error(t, Validate{}.Validate(&sample{}))
}
