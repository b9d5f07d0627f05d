package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTransport_StatusAndMessage(t *testing.T) {
	err := NewTransport(http.MethodPost, "http://backend/api/operating-systems/jpa/search", 500)

	assert.Equal(t, CodeTransport, err.Code)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.Equal(t, 500, err.Details["status"])
	assert.Contains(t, err.Message, "500")
}

func TestNewTransport_NetworkFailure(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransport(http.MethodGet, "http://backend/filters", 0).WithCause(cause)

	assert.Equal(t, "search backend request failed", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestHelpers_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("search jpa: %w", NewDecode("search result", errors.New("unexpected EOF")))

	assert.True(t, IsDecode(wrapped))
	assert.False(t, IsTransport(wrapped))
	assert.False(t, IsValidation(wrapped))

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeDecode, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
}

func TestAsAppError_PlainError(t *testing.T) {
	_, ok := AsAppError(errors.New("boom"))
	assert.False(t, ok)
	assert.False(t, IsTransport(errors.New("boom")))
}

func TestUnsupportedFilterKind_Details(t *testing.T) {
	err := NewUnsupportedFilterKind("name", "regex")

	assert.Equal(t, CodeUnsupportedFilterKind, err.Code)
	assert.Equal(t, "name", err.Details["key"])
	assert.Equal(t, "regex", err.Details["kind"])
	assert.Equal(t, `UNSUPPORTED_FILTER_KIND: unsupported filter kind "regex"`, err.Error())
}
