// Package bootstrap populates default roles, users and permission grants
// at process startup. Every step is idempotent so repeated boots converge
// on the same state.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Default role names provisioned on every boot.
var DefaultRoles = []string{"SuperAdmin", "Admin", "Basic"}

// SuperRole is the role granted every permission of the seeded modules.
const SuperRole = "SuperAdmin"

// SeededModules lists the modules whose permissions the super role
// receives at boot. Seeding stays one explicit (role, module) pair per
// entry; growing the module set means growing this list.
var SeededModules = []string{"Products"}

// RoleProvisioner is the slice of the rbac service the seeder needs.
type RoleProvisioner interface {
	EnsureRole(ctx context.Context, name string) (*rbac.Role, error)
	GrantModule(ctx context.Context, roleName, module string) error
}

// UserProvisioner is the slice of the auth repository the seeder needs.
type UserProvisioner interface {
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	CreateUser(ctx context.Context, username, email, passwordHash string) (*auth.User, error)
	AssignRole(ctx context.Context, userID int64, roleName string) error
}

// Seeder provisions the default roles, grants and users.
type Seeder struct {
	logger   *slog.Logger
	roles    RoleProvisioner
	users    UserProvisioner
	password string
}

// New constructs a Seeder. When password is empty the default users are
// skipped and only roles and grants are provisioned.
func New(logger *slog.Logger, roles RoleProvisioner, users UserProvisioner, password string) *Seeder {
	return &Seeder{logger: logger, roles: roles, users: users, password: password}
}

// Run executes the full seeding sequence.
func (s *Seeder) Run(ctx context.Context) error {
	for _, name := range DefaultRoles {
		if _, err := s.roles.EnsureRole(ctx, name); err != nil {
			return fmt.Errorf("bootstrap: ensure role %s: %w", name, err)
		}
	}

	for _, module := range SeededModules {
		if err := s.roles.GrantModule(ctx, SuperRole, module); err != nil {
			return fmt.Errorf("bootstrap: grant %s to %s: %w", module, SuperRole, err)
		}
	}

	if s.password == "" {
		s.logger.Info("seed password not configured, skipping default users")
		return nil
	}

	if err := s.ensureUser(ctx, "basicuser", "basicuser@domain.com", "Basic"); err != nil {
		return err
	}
	// The super admin is a member of every default role.
	if err := s.ensureUser(ctx, "superadmin", "superadmin@domain.com", DefaultRoles...); err != nil {
		return err
	}
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, username, email string, roles ...string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("bootstrap: find user %s: %w", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user, err := s.users.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		// A concurrent boot may have created the user in between.
		if errors.Is(err, shared.ErrDuplicateEmail) || errors.Is(err, shared.ErrDuplicateUsername) {
			return nil
		}
		return fmt.Errorf("bootstrap: create user %s: %w", email, err)
	}
	for _, role := range roles {
		if err := s.users.AssignRole(ctx, user.ID, role); err != nil {
			return fmt.Errorf("bootstrap: assign %s to %s: %w", role, email, err)
		}
	}
	s.logger.Info("seeded user", slog.String("email", email))
	return nil
}
