package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("X", "bad").Status())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("X", "who").Status())
	assert.Equal(t, http.StatusForbidden, Forbidden("X", "no").Status())
	assert.Equal(t, http.StatusNotFound, NotFound("X", "gone").Status())
	assert.Equal(t, http.StatusInternalServerError, Internal("boom", nil).Status())
}

func TestAsFindsWrappedError(t *testing.T) {
	sentinel := NotFound("PRODUCT_NOT_FOUND", "product not found")
	wrapped := fmt.Errorf("loading page: %w", sentinel)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Same(t, sentinel, appErr)
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load product", cause)

	assert.Equal(t, "failed to load product: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}
