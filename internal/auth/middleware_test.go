package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func issueTestToken(t *testing.T, svc *TokenService, roles []string, perms []string) string {
	t.Helper()
	claims := make([]rbac.Claim, 0, len(perms))
	for _, p := range perms {
		claims = append(claims, rbac.Claim{Type: "Permission", Value: p})
	}
	token, _, err := svc.Issue(&User{ID: 3, Username: "tester", Email: "tester@domain.com"}, roles, claims)
	require.NoError(t, err)
	return token
}

func TestRequirePermissionAuthorized(t *testing.T) {
	svc := newTokenService(t)
	mw := Middleware{Tokens: svc}
	next, called := okHandler()

	token := issueTestToken(t, svc, []string{"Basic"}, []string{"Permissions.Products.Edit"})
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	mw.RequirePermission("Permissions.Products.Edit")(next).ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.True(t, *called)
}

func TestRequirePermissionForbidden(t *testing.T) {
	svc := newTokenService(t)
	mw := Middleware{Tokens: svc}
	next, called := okHandler()

	// Holds Edit but not Delete: the valid token is rejected for this
	// specific operation only.
	token := issueTestToken(t, svc, []string{"Basic"}, []string{"Permissions.Products.Edit"})
	req := httptest.NewRequest(http.MethodDelete, "/products/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	mw.RequirePermission("Permissions.Products.Delete")(next).ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, *called)
}

func TestRequirePermissionMissingToken(t *testing.T) {
	svc := newTokenService(t)
	mw := Middleware{Tokens: svc}
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	res := httptest.NewRecorder()

	mw.RequirePermission("Permissions.Products.View")(next).ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, *called)
}

func TestRequirePermissionInvalidToken(t *testing.T) {
	svc := newTokenService(t)
	mw := Middleware{Tokens: svc}
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res := httptest.NewRecorder()

	mw.RequirePermission("Permissions.Products.View")(next).ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, *called)
}

func TestRequireRole(t *testing.T) {
	svc := newTokenService(t)
	mw := Middleware{Tokens: svc}

	token := issueTestToken(t, svc, []string{"SuperAdmin"}, nil)

	next, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	mw.RequireRole("SuperAdmin")(next).ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.True(t, *called)

	next, called = okHandler()
	req = httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, svc, []string{"Basic"}, nil))
	res = httptest.NewRecorder()
	mw.RequireRole("SuperAdmin")(next).ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, *called)
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	svc := newTokenService(t)
	mw := Middleware{Tokens: svc}

	var principal *shared.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	token := issueTestToken(t, svc, []string{"Basic"}, []string{"Permissions.Products.View"})
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	mw.RequirePermission("Permissions.Products.View")(next).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, principal)
	assert.Equal(t, "tester", principal.Username)
	assert.Equal(t, "3", principal.UserID)
	assert.Equal(t, []string{"Basic"}, principal.Roles)
}
