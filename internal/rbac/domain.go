// Package rbac guards back-office routes with role based permissions.
package rbac

import (
	"context"
	"sort"

	"github.com/informreaders/portal/internal/shared"
)

// Principal describes the signed-in admin.
type Principal struct {
	UserID      int64
	Role        string
	Permissions []string
}

// Can reports whether the principal holds perm.
func (p Principal) Can(perm string) bool {
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// RoleGrant lists the permissions of one role, for display.
type RoleGrant struct {
	Role        string
	Permissions []string
}

// Grants returns every role with its permissions, sorted by role.
func Grants() []RoleGrant {
	roles := []string{shared.RoleAdmin, shared.RoleEditor}
	sort.Strings(roles)
	out := make([]RoleGrant, 0, len(roles))
	for _, role := range roles {
		perms := append([]string(nil), shared.RolePermissions(role)...)
		sort.Strings(perms)
		out = append(out, RoleGrant{Role: role, Permissions: perms})
	}
	return out
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal resolved by Middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
