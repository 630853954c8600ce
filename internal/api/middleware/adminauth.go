package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/response"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminAuth guards admin routes with the shared key. The comparison is
// constant-time; rate limiting must already have run by this point.
func AdminAuth(adminKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" {
				ctxzap.Error(r.Context(), "admin key is not configured")
				response.Error(w, http.StatusServiceUnavailable, "administração indisponível", entity.CodeConfigError)
				return
			}

			provided := r.Header.Get(AdminKeyHeader)
			if provided == "" {
				response.Error(w, http.StatusUnauthorized, "chave de administrador ausente", entity.CodeMissingKey)
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				ctxzap.Warn(r.Context(), "invalid admin key presented")
				response.Error(w, http.StatusUnauthorized, "chave de administrador inválida", entity.CodeInvalidKey)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
