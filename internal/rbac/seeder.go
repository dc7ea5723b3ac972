package rbac

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentinel-iam/sentinel/internal/permissions"
)

// GrantError reports the permissions that could not be persisted during a
// seeding run. Claims added before the failure stay in place; re-running
// the grant completes the remainder.
type GrantError struct {
	Module string
	Failed []string
	cause  error
}

func (e *GrantError) Error() string {
	return fmt.Sprintf("rbac: grant %s permissions: failed %s: %v",
		e.Module, strings.Join(e.Failed, ", "), e.cause)
}

func (e *GrantError) Unwrap() error { return e.cause }

// GrantModulePermissions attaches the module's catalog permissions to the
// role, skipping claims the role already holds. The operation is monotonic
// and idempotent: claims only grow, and a repeat invocation is a no-op.
func GrantModulePermissions(ctx context.Context, store Store, role *Role, module string) error {
	existing, err := store.GetClaims(ctx, role.ID)
	if err != nil {
		return fmt.Errorf("rbac: load claims for role %s: %w", role.Name, err)
	}

	held := make(map[string]struct{}, len(existing))
	for _, claim := range existing {
		if claim.Type == permissions.ClaimTypePermission {
			held[claim.Value] = struct{}{}
		}
	}

	var failed []string
	var cause error
	for _, perm := range permissions.Generate(module) {
		if _, ok := held[perm]; ok {
			continue
		}
		claim := Claim{Type: permissions.ClaimTypePermission, Value: perm}
		if err := store.AddClaim(ctx, role.ID, claim); err != nil {
			failed = append(failed, perm)
			if cause == nil {
				cause = err
			}
		}
	}

	if len(failed) > 0 {
		return &GrantError{Module: module, Failed: failed, cause: cause}
	}
	return nil
}
