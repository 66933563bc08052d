package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Middleware authenticates requests from bearer tokens.
type Middleware struct {
	Tokens *TokenManager
	Logger *slog.Logger
}

// ExtractBearerToken pulls the token out of an Authorization header.
func ExtractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}

// Authenticate verifies the bearer token and attaches the identity to the
// request context.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Access denied. No token provided.")
			return
		}
		claims, err := m.Tokens.Verify(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "Token has expired. Please login again.")
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("token verification failed", slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "Invalid token.")
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), claims.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
