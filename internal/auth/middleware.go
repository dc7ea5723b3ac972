package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Middleware gates HTTP handlers on token claims. Validation and the
// membership check are pure over the decoded claim set; no store access
// happens on the request path.
type Middleware struct {
	Tokens *TokenService
	Logger *slog.Logger
}

// RequirePermission rejects requests whose token lacks the exact required
// permission string. Invalid tokens yield 401, missing claims 403.
func (m Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := m.authenticate(w, r)
			if !ok {
				return
			}
			if !principal.HasPermission(permission) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing required permission")
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole is the role-membership variant of RequirePermission, checked
// against the token's roles claims.
func (m Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := m.authenticate(w, r)
			if !ok {
				return
			}
			if !principal.HasRole(role) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing required role")
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func (m Middleware) authenticate(w http.ResponseWriter, r *http.Request) (*shared.Principal, bool) {
	token := bearerToken(r)
	if token == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return nil, false
	}
	claims, err := m.Tokens.Verify(token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token rejected", slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
		return nil, false
	}
	return &shared.Principal{
		UserID:      claims.UID,
		Username:    claims.Subject,
		Email:       claims.Email,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
	}, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
