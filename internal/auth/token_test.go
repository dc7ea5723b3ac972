package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/rbac"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Key:      []byte("0123456789abcdef0123456789abcdef"),
		Issuer:   "sentinel-test",
		Audience: "sentinel-clients",
		Duration: time.Hour,
	}
}

func newTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testTokenConfig())
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsMissingConfig(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Key = nil
	_, err := NewTokenService(cfg)
	require.Error(t, err)

	cfg = testTokenConfig()
	cfg.Issuer = ""
	_, err = NewTokenService(cfg)
	require.Error(t, err)

	cfg = testTokenConfig()
	cfg.Audience = ""
	_, err = NewTokenService(cfg)
	require.Error(t, err)

	cfg = testTokenConfig()
	cfg.Duration = 0
	_, err = NewTokenService(cfg)
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTokenService(t)
	user := &User{ID: 7, Username: "basicuser", Email: "basicuser@domain.com"}

	token, expiresOn, err := svc.Issue(user, []string{"Basic"}, nil)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresOn, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "basicuser", claims.Subject)
	assert.Equal(t, "basicuser@domain.com", claims.Email)
	assert.Equal(t, "7", claims.UID)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, []string{"Basic"}, claims.Roles)
	assert.Empty(t, claims.Permissions)
}

func TestTokenCarriesMergedPermissionClaims(t *testing.T) {
	svc := newTokenService(t)
	user := &User{ID: 1, Username: "superadmin", Email: "superadmin@domain.com"}

	merged := []rbac.Claim{
		{Type: "Permission", Value: "Permissions.Products.Create"},
		{Type: "Permission", Value: "Permissions.Products.View"},
		// Duplicate collapses by (type, value) equality.
		{Type: "Permission", Value: "Permissions.Products.Create"},
		// Non Permission claim types never leak into the permission list.
		{Type: "scope", Value: "Permissions.Products.Delete"},
	}
	token, _, err := svc.Issue(user, []string{"SuperAdmin"}, merged)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"Permissions.Products.Create", "Permissions.Products.View"}, claims.Permissions)
	assert.True(t, claims.HasPermission("Permissions.Products.Create"))
	assert.False(t, claims.HasPermission("Permissions.Products.Delete"))
	assert.True(t, claims.HasRole("SuperAdmin"))
	assert.False(t, claims.HasRole("Basic"))
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := newTokenService(t)
	cfg := testTokenConfig()

	for _, offset := range []time.Duration{0, -time.Second, -time.Hour} {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "basicuser",
				Issuer:    cfg.Issuer,
				Audience:  jwt.ClaimStrings{cfg.Audience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(offset)),
			},
		})
		signed, err := expired.SignedString(cfg.Key)
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		assert.ErrorIs(t, err, ErrTokenInvalid, "offset %v", offset)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	svc := newTokenService(t)
	token, _, err := svc.Issue(&User{ID: 1, Username: "u", Email: "u@d"}, nil, nil)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	flip := func(s string) string {
		b := []byte(s)
		if b[0] == 'A' {
			b[0] = 'B'
		} else {
			b[0] = 'A'
		}
		return string(b)
	}

	_, err = svc.Verify(parts[0] + "." + flip(parts[1]) + "." + parts[2])
	assert.ErrorIs(t, err, ErrTokenInvalid, "payload tamper")

	_, err = svc.Verify(parts[0] + "." + parts[1] + "." + flip(parts[2]))
	assert.ErrorIs(t, err, ErrTokenInvalid, "signature tamper")
}

func TestVerifyRejectsWrongKeyIssuerAudience(t *testing.T) {
	svc := newTokenService(t)

	otherKey := testTokenConfig()
	otherKey.Key = []byte("ffffffffffffffffffffffffffffffff")
	otherSvc, err := NewTokenService(otherKey)
	require.NoError(t, err)
	token, _, err := otherSvc.Issue(&User{ID: 1, Username: "u", Email: "u@d"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	otherIss := testTokenConfig()
	otherIss.Issuer = "someone-else"
	otherSvc, err = NewTokenService(otherIss)
	require.NoError(t, err)
	token, _, err = otherSvc.Issue(&User{ID: 1, Username: "u", Email: "u@d"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	otherAud := testTokenConfig()
	otherAud.Audience = "other-clients"
	otherSvc, err = NewTokenService(otherAud)
	require.NoError(t, err)
	token, _, err = otherSvc.Issue(&User{ID: 1, Username: "u", Email: "u@d"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	svc := newTokenService(t)
	cfg := testTokenConfig()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
