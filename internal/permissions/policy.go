package permissions

// RoleClass tags the built-in admin role families. Canonical classes carry a
// fixed policy independent of any stored role row; Generic admins resolve
// through the role table like everyone else.
type RoleClass int

const (
	// RoleClassGeneric resolves through stored role permissions.
	RoleClassGeneric RoleClass = iota
	// RoleClassSuperAdmin is the full-access shortcut.
	RoleClassSuperAdmin
	// RoleClassAdmin is equivalent to super admin for module access.
	RoleClassAdmin
	// RoleClassOperator has a restricted fixed module set.
	RoleClassOperator
)

// ClassifyAdminRole maps an admin's role name to its class. Matching is
// exact: only the three canonical names bypass the role table.
func ClassifyAdminRole(name string) RoleClass {
	switch name {
	case "Super Admin":
		return RoleClassSuperAdmin
	case "Admin":
		return RoleClassAdmin
	case "Operator":
		return RoleClassOperator
	default:
		return RoleClassGeneric
	}
}

// AdminPolicy is the fixed access grant for a canonical admin class.
type AdminPolicy struct {
	Modules     []string
	Permissions Document
}

// PolicyFor returns the fixed policy for canonical admin classes. The second
// return is false for RoleClassGeneric, which has no fixed policy.
func PolicyFor(class RoleClass) (AdminPolicy, bool) {
	switch class {
	case RoleClassSuperAdmin, RoleClassAdmin:
		return AdminPolicy{
			Modules: []string{"assets", "licenses", "users", "roles", "reports", "settings"},
			Permissions: Document{
				"manage_users":          true,
				"manage_roles":          true,
				"manage_infrastructure": true,
				"view_reports":          true,
				"manage_settings":       true,
			},
		}, true
	case RoleClassOperator:
		return AdminPolicy{
			Modules: []string{"assets", "reports"},
			Permissions: Document{
				"manage_users":          false,
				"manage_roles":          false,
				"manage_infrastructure": true,
				"view_reports":          true,
				"manage_settings":       false,
			},
		}, true
	default:
		return AdminPolicy{}, false
	}
}
