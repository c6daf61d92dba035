package rbac

import (
	"context"
	"errors"
	"strings"

	"github.com/informreaders/portal/internal/shared"
)

// ErrNoRole is returned when a user has no usable role.
var ErrNoRole = errors.New("rbac: no role")

// RoleResolver looks up the current role of a user. auth.Service satisfies it.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID int64) (string, error)
}

// Service resolves principals.
type Service struct {
	roles RoleResolver
}

// NewService constructs a Service. With a nil resolver the role stored in
// the session at login is trusted.
func NewService(roles RoleResolver) *Service {
	return &Service{roles: roles}
}

// Resolve builds the principal for a signed-in user.
func (s *Service) Resolve(ctx context.Context, userID int64, sessionRole string) (Principal, error) {
	role := sessionRole
	if s != nil && s.roles != nil {
		r, err := s.roles.RoleOf(ctx, userID)
		if err != nil {
			return Principal{}, err
		}
		role = r
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !shared.ValidRole(role) {
		return Principal{}, ErrNoRole
	}
	return Principal{UserID: userID, Role: role, Permissions: shared.RolePermissions(role)}, nil
}
