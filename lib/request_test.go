package lib

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=0"`
}

func bodyRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestExtractAndValidateBody(t *testing.T) {
	r := bodyRequest(`{"name":"Ada","email":"ada@example.com","age":36}`)

	got, err := ExtractAndValidateBody[testPayload](r)
	require.NoError(t, err)

	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, 36, got.Age)
}

func TestExtractAndValidateBodyInvalidJSON(t *testing.T) {
	_, err := ExtractAndValidateBody[testPayload](bodyRequest(`{not json`))
	assert.Error(t, err)
}

func TestExtractAndValidateBodyUnknownField(t *testing.T) {
	_, err := ExtractAndValidateBody[testPayload](bodyRequest(`{"name":"Ada","email":"ada@example.com","surprise":true}`))
	assert.Error(t, err)
}

func TestExtractAndValidateBodyValidationErrors(t *testing.T) {
	_, err := ExtractAndValidateBody[testPayload](bodyRequest(`{"name":"A","email":"not-an-email","age":-1}`))
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Errors, 3)

	byField := map[string]string{}
	for _, fe := range ve.Errors {
		byField[fe.Field] = fe.Message
	}

	assert.Equal(t, "must be at least 2", byField["name"])
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be greater than or equal to 0", byField["age"])
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(testPayload{Name: "Ada", Email: "ada@example.com"})
	assert.NoError(t, err)

	err = ValidateStruct(testPayload{})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
}
