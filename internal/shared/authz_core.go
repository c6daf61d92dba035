package shared

// Back-office permissions.
const (
	PermSoftwareView = "software.view"
	PermSoftwareEdit = "software.edit"
	PermProfileView  = "profile.view"
	PermProfileEdit  = "profile.edit"
	PermAuditView    = "audit.view"
	PermCacheFlush   = "cache.flush"
)

// SessionRoleKey stores the signed-in admin's role in the session.
const SessionRoleKey = "admin_role"

// Admin roles.
const (
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// RolePermissions maps each admin role to its granted permissions.
func RolePermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermSoftwareView,
			PermSoftwareEdit,
			PermProfileView,
			PermProfileEdit,
			PermAuditView,
			PermCacheFlush,
		}
	case RoleEditor:
		return []string{
			PermSoftwareView,
			PermSoftwareEdit,
			PermProfileView,
		}
	default:
		return nil
	}
}

// ValidRole reports whether role is a known admin role.
func ValidRole(role string) bool {
	return role == RoleEditor || role == RoleAdmin
}
