// Package permissions is the single source of truth for the permission
// naming scheme. Permissions are derived from a module name and a fixed
// action vocabulary, never stored as standalone records.
package permissions

import "fmt"

// ClaimTypePermission is the claim type under which permissions are
// persisted on roles and carried inside tokens.
const ClaimTypePermission = "Permission"

// ClaimTypeRoles is the claim type carrying role memberships in tokens.
const ClaimTypeRoles = "roles"

// Actions is the fixed action vocabulary, in stable order. Every module
// gets exactly one permission per action.
var Actions = []string{"View", "Create", "Edit", "Delete"}

// Modules enumerates the business areas with permission-gated operations.
// Extending the catalog means appending here; the order drives All().
var Modules = []string{"Products", "Users", "Roles"}

// Products module permissions.
const (
	ProductsView   = "Permissions.Products.View"
	ProductsCreate = "Permissions.Products.Create"
	ProductsEdit   = "Permissions.Products.Edit"
	ProductsDelete = "Permissions.Products.Delete"
)

// UsersView gates the user listing endpoint.
const UsersView = "Permissions.Users.View"

// Generate returns the four permission strings for a module, in action
// order. The module name is not required to be in Modules so callers can
// gate ad hoc modules.
func Generate(module string) []string {
	perms := make([]string, 0, len(Actions))
	for _, action := range Actions {
		perms = append(perms, fmt.Sprintf("Permissions.%s.%s", module, action))
	}
	return perms
}

// All returns the permissions of every declared module, module order then
// action order.
func All() []string {
	all := make([]string, 0, len(Modules)*len(Actions))
	for _, module := range Modules {
		all = append(all, Generate(module)...)
	}
	return all
}
