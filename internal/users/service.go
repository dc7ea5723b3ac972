package users

import (
	"context"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// RoleAssigner attaches role memberships during provisioning. Implemented
// by the auth repository.
type RoleAssigner interface {
	AssignRole(ctx context.Context, userID int64, roleName string) error
}

// Service handles user management logic.
type Service struct {
	repo  RepositoryPort
	roles RoleAssigner
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RoleAssigner) *Service {
	return &Service{repo: repo, roles: roles}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// AssignRole grants a role membership to a user.
func (s *Service) AssignRole(ctx context.Context, userID int64, roleName string) error {
	return s.roles.AssignRole(ctx, userID, roleName)
}
