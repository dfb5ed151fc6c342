package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	resp := Error("user not found")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "user not found", resp.Error)
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required"`
		Role  string `validate:"oneof=user admin"`
		Pass  string `validate:"min=6"`
		Stock int    `validate:"gte=0"`
	}
	err := validator.New().Struct(req{Role: "root", Pass: "123", Stock: -1})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email is a required field")
	assert.Contains(t, resp.Error, "field Role must be one of: user admin")
	assert.Contains(t, resp.Error, "field Pass must be at least 6 characters")
	assert.Contains(t, resp.Error, "field Stock must be greater than or equal to 0")
}
