package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sentinel-iam/sentinel/internal/permissions"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// DefaultRole is attached to every newly registered user.
const DefaultRole = "Basic"

// ClaimSource resolves the merged Permission claim values for a role set.
// Implemented by the rbac service.
type ClaimSource interface {
	PermissionsForRoles(ctx context.Context, roles []string) ([]string, error)
}

// EventSink receives authentication outcomes for the audit trail.
type EventSink interface {
	RecordAuthEvent(ctx context.Context, event AuthEvent)
}

// Service wraps authentication business rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
	claims ClaimSource
	tokens *TokenService
	events EventSink
}

// NewService constructs a new Service. The event sink may be nil.
func NewService(logger *slog.Logger, repo Repository, claims ClaimSource, tokens *TokenService, events EventSink) *Service {
	return &Service{logger: logger, repo: repo, claims: claims, tokens: tokens, events: events}
}

// Register creates a user, attaches the default role and issues a token.
func (s *Service) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, shared.ErrDuplicateEmail
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, shared.ErrDuplicateUsername
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		return nil, err
	}
	if err := s.repo.AssignRole(ctx, user.ID, DefaultRole); err != nil {
		s.logger.Warn("assign default role", slog.String("username", username), slog.Any("error", err))
	}

	result, err := s.issueFor(ctx, user, "The user created successfully")
	s.record(ctx, "register", email, username, err == nil)
	return result, err
}

// Login validates credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.record(ctx, "login", email, "", false)
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.record(ctx, "login", email, user.Username, false)
		return nil, shared.ErrInvalidCredentials
	}

	result, err := s.issueFor(ctx, user, "authenticated")
	s.record(ctx, "login", email, user.Username, err == nil)
	return result, err
}

// issueFor assembles the merged claim set (direct user claims unioned with
// every role's Permission claims) and signs the token.
func (s *Service) issueFor(ctx context.Context, user *User, message string) (*AuthResult, error) {
	roles, err := s.repo.RoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	direct, err := s.repo.UserClaims(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	rolePerms, err := s.claims.PermissionsForRoles(ctx, roles)
	if err != nil {
		return nil, err
	}

	merged := append([]rbac.Claim(nil), direct...)
	for _, perm := range rolePerms {
		merged = append(merged, rbac.Claim{Type: permissions.ClaimTypePermission, Value: perm})
	}

	token, expiresOn, err := s.tokens.Issue(user, roles, merged)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []string{}
	}
	return &AuthResult{
		IsAuthenticated: true,
		Message:         message,
		Username:        user.Username,
		Email:           user.Email,
		Token:           token,
		ExpiresOn:       expiresOn,
		Roles:           roles,
	}, nil
}

func (s *Service) record(ctx context.Context, kind, email, username string, success bool) {
	if s.events == nil {
		return
	}
	s.events.RecordAuthEvent(ctx, AuthEvent{
		Kind:     kind,
		Email:    email,
		Username: username,
		Success:  success,
		At:       time.Now().UTC(),
	})
}
