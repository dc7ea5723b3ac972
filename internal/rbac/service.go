package rbac

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/sentinel-iam/sentinel/internal/permissions"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Service orchestrates role and claim operations.
type Service struct {
	store Store
	cache *ClaimCache
	group singleflight.Group
}

// NewService constructs a Service. The cache may be nil.
func NewService(store Store, cache *ClaimCache) *Service {
	return &Service{store: store, cache: cache}
}

// ListRoles returns all roles ordered by name.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.store.ListRoles(ctx)
}

// FindRole fetches a role by name.
func (s *Service) FindRole(ctx context.Context, name string) (*Role, error) {
	return s.store.FindRoleByName(ctx, strings.TrimSpace(name))
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("rbac: role name required")
	}
	return s.store.CreateRole(ctx, name)
}

// EnsureRole returns the existing role or creates it. A concurrent create
// racing this call is resolved by re-reading after a duplicate error.
func (s *Service) EnsureRole(ctx context.Context, name string) (*Role, error) {
	role, err := s.store.FindRoleByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	role, err = s.CreateRole(ctx, name)
	if errors.Is(err, shared.ErrDuplicateRole) {
		return s.store.FindRoleByName(ctx, name)
	}
	return role, err
}

// RoleClaims returns the persisted claims of a named role.
func (s *Service) RoleClaims(ctx context.Context, name string) ([]Claim, error) {
	role, err := s.store.FindRoleByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return s.store.GetClaims(ctx, role.ID)
}

// GrantModule seeds the module's permissions onto the named role and
// invalidates the merged-claim cache when anything changed.
func (s *Service) GrantModule(ctx context.Context, roleName, module string) error {
	role, err := s.store.FindRoleByName(ctx, strings.TrimSpace(roleName))
	if err != nil {
		return err
	}
	err = GrantModulePermissions(ctx, s.store, role, module)
	s.cache.Invalidate(ctx)
	return err
}

// PermissionsForRoles returns the deduplicated union of Permission claim
// values across the given roles, sorted for a stable token layout.
// Concurrent lookups for the same role set collapse into one store round
// trip, and results are served from the cache when warm.
func (s *Service) PermissionsForRoles(ctx context.Context, roles []string) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	normalized := append([]string(nil), roles...)
	sort.Strings(normalized)

	if perms, ok := s.cache.Get(ctx, normalized); ok {
		return perms, nil
	}

	key := strings.Join(normalized, ",")
	result, err, _ := s.group.Do(key, func() (any, error) {
		union := make(map[string]struct{})
		for _, roleName := range normalized {
			role, err := s.store.FindRoleByName(ctx, roleName)
			if err != nil {
				return nil, err
			}
			claims, err := s.store.GetClaims(ctx, role.ID)
			if err != nil {
				return nil, err
			}
			for _, claim := range claims {
				if claim.Type == permissions.ClaimTypePermission {
					union[claim.Value] = struct{}{}
				}
			}
		}
		perms := make([]string, 0, len(union))
		for perm := range union {
			perms = append(perms, perm)
		}
		sort.Strings(perms)
		s.cache.Set(ctx, normalized, perms)
		return perms, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}
