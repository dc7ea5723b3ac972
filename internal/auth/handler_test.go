package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/sentinel-iam/sentinel/testing"
)

func newTestRouter(t *testing.T, repo Repository) chi.Router {
	t.Helper()
	service := newAuthService(t, repo, &stubClaimSource{}, nil)
	handler := NewHandler(nil, service)
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestHandleRegister(t *testing.T) {
	router := newTestRouter(t, newStubRepo())

	res := postJSON(t, router, "/auth/register",
		`{"username":"newuser","email":"newuser@domain.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, res.Code)

	var result AuthResult
	require.NoError(t, json.NewDecoder(res.Body).Decode(&result))
	assert.True(t, result.IsAuthenticated)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, []string{"Basic"}, result.Roles)
}

func TestHandleRegisterDuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "existing", "taken@domain.com", "password1")
	router := newTestRouter(t, repo)

	res := postJSON(t, router, "/auth/register",
		`{"username":"someone","email":"taken@domain.com","password":"s3cretpass"}`)
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestHandleRegisterValidation(t *testing.T) {
	router := newTestRouter(t, newStubRepo())

	res := postJSON(t, router, "/auth/register",
		`{"username":"x","email":"not-an-email","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandleToken(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "basicuser", "basicuser@domain.com", "correctpass", "Basic")
	router := newTestRouter(t, repo)

	res := postJSON(t, router, "/auth/token",
		`{"email":"basicuser@domain.com","password":"correctpass"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var result AuthResult
	require.NoError(t, json.NewDecoder(res.Body).Decode(&result))
	assert.True(t, result.IsAuthenticated)
	assert.Equal(t, "basicuser", result.Username)
	assert.NotEmpty(t, result.Token)
}

func TestHandleTokenInvalidCredentials(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "basicuser", "basicuser@domain.com", "correctpass", "Basic")
	router := newTestRouter(t, repo)

	for _, body := range []string{
		`{"email":"basicuser@domain.com","password":"wrongpass"}`,
		`{"email":"ghost@domain.com","password":"correctpass"}`,
	} {
		res := postJSON(t, router, "/auth/token", body)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		// Generic message regardless of which field was wrong.
		assert.Contains(t, res.Body.String(), "Email or Password is incorrect")
	}
}

func TestHandleTokenMalformedBody(t *testing.T) {
	router := newTestRouter(t, newStubRepo())
	res := postJSON(t, router, "/auth/token", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
