// Package rbac resolves module visibility for principals from their roles
// and guards HTTP endpoints with module checks.
package rbac

import "github.com/assetgrid/assetgrid/internal/permissions"

// RoleRef identifies a role attached to a user.
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AdminGrant is the resolved access for an admin principal.
type AdminGrant struct {
	Class       permissions.RoleClass
	Modules     []string
	Permissions permissions.Document
}

// UserGrant is the resolved access for a user principal, computed at login
// from the merged permission set of all active roles.
type UserGrant struct {
	Roles       []RoleRef
	Modules     []string
	Permissions permissions.Document
}

// RoleModules is the normalized module list one role grants. The access gate
// checks roles individually: any single role listing a module grants access.
type RoleModules struct {
	Role    RoleRef  `json:"role"`
	Modules []string `json:"modules"`
}
