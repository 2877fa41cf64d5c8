package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/fedegimenez/amaro-backend/api/responses"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKey guards the admin surface with the shared panel key. A server with
// no key configured rejects everything rather than letting the panel run
// open.
func AdminKey(apiKey string, logg *logger.Logger) func(http.Handler) http.Handler {
	expected := strings.TrimSpace(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access is not configured"))
				return
			}

			provided := strings.TrimSpace(r.Header.Get(adminKeyHeader))
			if provided == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin key required"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "invalid admin key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
