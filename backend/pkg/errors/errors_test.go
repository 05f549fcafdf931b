package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", NewInvalidID("person"), http.StatusBadRequest},
		{"validation", NewValidation([]string{"firstName is required"}), http.StatusBadRequest},
		{"not found", NewNotFound("Person"), http.StatusNotFound},
		{"conflict", NewAlreadyExists("Person", nil), http.StatusConflict},
		{"unauthorized", NewUnauthorized("Invalid or expired token", nil), http.StatusUnauthorized},
		{"internal", NewInternal("Failed to create person", stderrors.New("disk full")), http.StatusInternalServerError},
		{"storage", NewStorageUnavailable("neo4j", nil), http.StatusServiceUnavailable},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("handler: %w", NewNotFound("Place")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestIsErrorType(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewConflict("place has sub-places", nil))
	assert.True(t, IsErrorType(err, ErrorTypeConflict))
	assert.False(t, IsErrorType(err, ErrorTypeNotFound))
	assert.False(t, IsErrorType(stderrors.New("x"), ErrorTypeConflict))

	cfgErr := NewConfigMissingRequired("JWT_SECRET")
	assert.True(t, IsErrorType(cfgErr, ErrorTypeConfig))
}

func TestBaseErrorMessageAndUnwrap(t *testing.T) {
	cause := stderrors.New("UNIQUE constraint failed")
	err := NewAlreadyExists("Entity type", cause)

	assert.Equal(t, "[conflict] Entity type already exists: UNIQUE constraint failed", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Entity type already exists", PublicMessage(err))
	assert.Equal(t, "Internal server error", PublicMessage(stderrors.New("secret detail")))
}

func TestNewValidationKeepsAllDetails(t *testing.T) {
	err := NewValidation([]string{"a", "b", "c"})
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Details, 3)
}
