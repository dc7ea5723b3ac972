package rbac

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsForRolesUnion(t *testing.T) {
	store := newMockStore()
	admin := mustRole(t, store, "Admin")
	editor := mustRole(t, store, "Editor")

	require.NoError(t, GrantModulePermissions(context.Background(), store, admin, "Products"))
	require.NoError(t, store.AddClaim(context.Background(), editor.ID, Claim{Type: "Permission", Value: "Permissions.Products.Edit"}))
	require.NoError(t, store.AddClaim(context.Background(), editor.ID, Claim{Type: "roles", Value: "Editor"}))

	service := NewService(store, nil)
	perms, err := service.PermissionsForRoles(context.Background(), []string{"Admin", "Editor"})
	require.NoError(t, err)

	// Overlapping Permissions.Products.Edit collapses; the stray non
	// Permission claim is excluded.
	assert.Equal(t, []string{
		"Permissions.Products.Create",
		"Permissions.Products.Delete",
		"Permissions.Products.Edit",
		"Permissions.Products.View",
	}, perms)
}

func TestPermissionsForRolesEmpty(t *testing.T) {
	service := NewService(newMockStore(), nil)
	perms, err := service.PermissionsForRoles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestPermissionsForRolesUnknownRole(t *testing.T) {
	service := NewService(newMockStore(), nil)
	_, err := service.PermissionsForRoles(context.Background(), []string{"Ghost"})
	require.Error(t, err)
}

func TestPermissionsForRolesCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewClaimCache(client, time.Minute)

	store := newMockStore()
	admin := mustRole(t, store, "Admin")
	require.NoError(t, GrantModulePermissions(context.Background(), store, admin, "Products"))

	service := NewService(store, cache)
	first, err := service.PermissionsForRoles(context.Background(), []string{"Admin"})
	require.NoError(t, err)
	require.Len(t, first, 4)

	// Grow the role behind the cache's back; the stale entry answers until
	// a grant through the service bumps the version.
	require.NoError(t, GrantModulePermissions(context.Background(), store, admin, "Users"))
	cached, err := service.PermissionsForRoles(context.Background(), []string{"Admin"})
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	require.NoError(t, service.GrantModule(context.Background(), "Admin", "Roles"))
	fresh, err := service.PermissionsForRoles(context.Background(), []string{"Admin"})
	require.NoError(t, err)
	assert.Len(t, fresh, 12)
}

func TestEnsureRole(t *testing.T) {
	store := newMockStore()
	service := NewService(store, nil)

	created, err := service.EnsureRole(context.Background(), "SuperAdmin")
	require.NoError(t, err)

	again, err := service.EnsureRole(context.Background(), "SuperAdmin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestCreateRoleDuplicate(t *testing.T) {
	store := newMockStore()
	service := NewService(store, nil)

	_, err := service.CreateRole(context.Background(), "Basic")
	require.NoError(t, err)
	_, err = service.CreateRole(context.Background(), "Basic")
	require.Error(t, err)
}

func TestCreateRoleEmptyName(t *testing.T) {
	service := NewService(newMockStore(), nil)
	_, err := service.CreateRole(context.Background(), "   ")
	require.Error(t, err)
}
