package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNew(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "thing not found")

	assert.Equal(t, "TEST_NOT_FOUND", code)

	err := reg.New(code)
	require.NotNil(t, err)
	assert.Equal(t, code, err.Code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "thing not found", err.Message)
}

func TestRegistryNewUnknownCode(t *testing.T) {
	reg := NewRegistry("TEST")

	err := reg.New("TEST_MISSING")
	require.NotNil(t, err)
	assert.Equal(t, "TEST_UNKNOWN", err.Code)
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, "operation failed", TypeUnavailable)

	assert.Equal(t, TypeUnavailable, err.Type)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "operation failed")
	assert.Contains(t, err.Error(), "boom")
}

func TestWithDetailAndErr(t *testing.T) {
	cause := errors.New("underneath")
	reg := NewRegistry("TEST")
	code := reg.Register("X", TypeBusiness, http.StatusUnprocessableEntity, "x happened")

	err := reg.New(code).
		WithDetail("session_id", "abc").
		WithErr(cause)

	assert.Equal(t, "abc", err.Details["session_id"])
	assert.ErrorIs(t, err, cause)
}
