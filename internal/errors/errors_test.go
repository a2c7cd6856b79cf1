package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeDuplicate, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeConflict, http.StatusConflict},
		{CodeAlreadyConfigured, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err := NotFound("track not found")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrDuplicate))

	// Wrapped errors still match their sentinel.
	wrapped := fmt.Errorf("get track: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Internal("store failure").WithCause(cause)

	assert.Contains(t, err.Error(), "store failure")
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, cause, Unwrap(err))
}

func TestError_WithDetails(t *testing.T) {
	details := map[string]string{"title": "title is required"}
	err := ValidationWithDetails("validation failed", details)

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeValidation, domainErr.Code)
	assert.Equal(t, details, domainErr.Details)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
}

func TestWrap_PreservesCode(t *testing.T) {
	err := Wrap(fmt.Errorf("badger: key not found"), CodeNotFound, "page not found")

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeNotFound, domainErr.Code)
	assert.True(t, Is(err, ErrNotFound))
}
