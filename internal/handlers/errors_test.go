package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapkaro/swapkaro-backend/internal/apperrors"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/products/x", nil)

	respondError(c, err)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return w, resp
}

func TestRespondErrorInternalCarriesCause(t *testing.T) {
	cause := errors.New("connection refused")
	w, resp := respond(t, fmt.Errorf("wrapped: %w", apperrors.Internal("failed to load product", cause)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "failed to load product: connection refused", resp.Error.Message)
}

func TestRespondErrorKeepsDomainCode(t *testing.T) {
	w, resp := respond(t, apperrors.Forbidden("BARGAIN_FORBIDDEN", "not your bargain"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "BARGAIN_FORBIDDEN", resp.Error.Code)
	assert.Equal(t, "not your bargain", resp.Error.Message)
	assert.False(t, resp.Success)
}

func TestRespondErrorPlainError(t *testing.T) {
	w, resp := respond(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", resp.Error.Message)
}
