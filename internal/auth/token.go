package auth

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sentinel-iam/sentinel/internal/permissions"
	"github.com/sentinel-iam/sentinel/internal/rbac"
)

// ErrTokenInvalid covers every token rejection: bad signature, wrong
// issuer or audience, expiry, malformed payload. Callers must not
// distinguish the cases.
var ErrTokenInvalid = errors.New("auth: token invalid")

// TokenConfig carries the signing material. All fields are read once at
// startup and immutable afterwards.
type TokenConfig struct {
	Key      []byte
	Issuer   string
	Audience string
	Duration time.Duration
}

// Claims is the token payload. Permission and role claims are flat string
// lists; authorization compares exact strings, so the
// Permissions.<Module>.<Action> format must stay stable.
type Claims struct {
	Email       string   `json:"email,omitempty"`
	UID         string   `json:"uid,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"Permission,omitempty"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the exact permission string is present.
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasRole reports whether the token carries the given role claim.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenService signs and verifies the self-contained credentials issued at
// login and registration. Tokens are never stored server-side and cannot
// be revoked before expiry.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService validates the signing configuration. A missing key,
// issuer or audience is a startup error, never a per-call one.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Key) == 0 {
		return nil, errors.New("auth: signing key must be provided")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("auth: issuer and audience must be provided")
	}
	if cfg.Duration <= 0 {
		return nil, errors.New("auth: token duration must be positive")
	}
	return &TokenService{cfg: cfg}, nil
}

// Issue signs a token for the user. The claims argument is the pre-merged
// union of the user's direct claims and every role's persisted claims; the
// issuer deduplicates by (type, value) but performs no store lookups.
func (t *TokenService) Issue(user *User, roles []string, claims []rbac.Claim) (string, time.Time, error) {
	perms := make([]string, 0, len(claims))
	seen := make(map[rbac.Claim]struct{}, len(claims))
	for _, claim := range claims {
		if _, ok := seen[claim]; ok {
			continue
		}
		seen[claim] = struct{}{}
		if claim.Type == permissions.ClaimTypePermission {
			perms = append(perms, claim.Value)
		}
	}
	sort.Strings(perms)

	now := time.Now()
	expiresAt := now.Add(t.cfg.Duration)
	tokenClaims := Claims{
		Email:       user.Email,
		UID:         strconv.FormatInt(user.ID, 10),
		Roles:       append([]string(nil), roles...),
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims).SignedString(t.cfg.Key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, signing method, issuer, audience and expiry.
// Expiry is exclusive: a token presented at or after its expiry timestamp
// is rejected.
func (t *TokenService) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
