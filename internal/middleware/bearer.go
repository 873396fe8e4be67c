// Package middleware provides HTTP middleware for the marketplace server:
// bearer token authentication for the MCP endpoint, request ids and request
// logging for the gin router.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewBearerAuth returns an HTTP middleware that enforces bearer token
// authentication. If the configured token is empty, authentication is disabled
// and all requests pass through to the next handler unconditionally.
//
// When enabled, the middleware requires the incoming request to carry an
// Authorization header with the exact format:
//
//	Authorization: Bearer <token>
//
// The "Bearer" prefix is case-sensitive and must be followed by exactly one
// space before the token value. Any other shape results in a 401 and the next
// handler is never called. Rejections are logged at warn level when logger is
// non-nil.
func NewBearerAuth(token string, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			provided, ok := strings.CutPrefix(authHeader, prefix)
			if !ok || provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				if logger != nil {
					logger.WithFields(logrus.Fields{
						"path":      r.URL.Path,
						"remote_ip": r.RemoteAddr,
					}).Warn("rejected request with missing or invalid bearer token")
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
