package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/response"
)

func adminProtected(adminKey string) (http.Handler, *int) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	return AdminAuth(adminKey)(next), &calls
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAdminAuth_ValidKey(t *testing.T) {
	handler, calls := adminProtected("secret-key")

	req := httptest.NewRequest(http.MethodPost, "/admin-auth", nil)
	req.Header.Set(AdminKeyHeader, "secret-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestAdminAuth_MissingKey(t *testing.T) {
	handler, calls := adminProtected("secret-key")

	req := httptest.NewRequest(http.MethodPost, "/admin-auth", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, *calls)
	assert.Equal(t, entity.CodeMissingKey, decodeError(t, rec).Code)
}

func TestAdminAuth_InvalidKey(t *testing.T) {
	handler, calls := adminProtected("secret-key")

	req := httptest.NewRequest(http.MethodPost, "/admin-auth", nil)
	req.Header.Set(AdminKeyHeader, "wrong-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, *calls)
	assert.Equal(t, entity.CodeInvalidKey, decodeError(t, rec).Code)
}

func TestAdminAuth_UnconfiguredKey(t *testing.T) {
	handler, calls := adminProtected("")

	req := httptest.NewRequest(http.MethodPost, "/admin-auth", nil)
	req.Header.Set(AdminKeyHeader, "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, *calls)
	assert.Equal(t, entity.CodeConfigError, decodeError(t, rec).Code)
}
