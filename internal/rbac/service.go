package rbac

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Service resolves module access for principals. Canonical admin role names
// (Super Admin, Admin, Operator) carry a fixed policy and bypass the role
// table; everything else resolves through stored role permissions.
type Service struct {
	store  Store
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs a Service. The cache may be nil, in which case every
// resolution hits the store.
func NewService(store Store, cache *Cache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// AdminAccess resolves the grant for an admin role name.
func (s *Service) AdminAccess(ctx context.Context, roleName string) (AdminGrant, error) {
	class := permissions.ClassifyAdminRole(roleName)
	if policy, ok := permissions.PolicyFor(class); ok {
		return AdminGrant{Class: class, Modules: policy.Modules, Permissions: policy.Permissions}, nil
	}

	var doc permissions.Document
	raw, err := s.store.RolePermissionsByName(ctx, roleName)
	switch {
	case err == nil:
		var ok bool
		if doc, ok = permissions.Decode(raw); !ok && len(raw) > 0 {
			s.logger.Warn("unparseable role permissions", slog.String("role", roleName))
		}
	case errors.Is(err, shared.ErrNotFound):
		// No stored role for this admin; defaults apply.
	default:
		return AdminGrant{}, err
	}

	modules := permissions.ResolveModules(doc, permissions.KindAdmin)
	return AdminGrant{Class: class, Modules: modules, Permissions: doc.WithModules(modules)}, nil
}

// AdminModules returns the module list for an admin principal, cached.
func (s *Service) AdminModules(ctx context.Context, adminID int64) ([]string, error) {
	var modules []string
	err := s.cache.FetchJSON(ctx, []string{"rbac:grant:admin", strconv.FormatInt(adminID, 10)}, &modules,
		func(ctx context.Context) (any, error) {
			role, err := s.store.AdminRole(ctx, adminID)
			if err != nil {
				return nil, err
			}
			grant, err := s.AdminAccess(ctx, role)
			if err != nil {
				return nil, err
			}
			return grant.Modules, nil
		})
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// UserAccess resolves the login-time grant for a user: permission documents
// of all active roles merged into one, with module defaults applied when the
// merge yields none.
func (s *Service) UserAccess(ctx context.Context, userID int64) (UserGrant, error) {
	grants, err := s.store.ActiveRoleGrants(ctx, userID)
	if err != nil {
		return UserGrant{}, err
	}

	refs := make([]RoleRef, 0, len(grants))
	docs := make([]permissions.Document, 0, len(grants))
	for _, g := range grants {
		refs = append(refs, RoleRef{ID: g.RoleID, Name: g.RoleName})
		doc, ok := permissions.Decode(g.Permissions)
		if !ok {
			if len(g.Permissions) > 0 {
				s.logger.Warn("unparseable role permissions", slog.String("role", g.RoleName))
			}
			continue
		}
		docs = append(docs, doc)
	}

	merged := permissions.Merge(docs)
	modules := permissions.ResolveModules(merged, permissions.KindEmployee)
	return UserGrant{
		Roles:       refs,
		Modules:     modules,
		Permissions: merged.WithModules(modules),
	}, nil
}

// AdminGrantByID resolves the full grant for an admin account.
func (s *Service) AdminGrantByID(ctx context.Context, adminID int64) (AdminGrant, error) {
	role, err := s.store.AdminRole(ctx, adminID)
	if err != nil {
		return AdminGrant{}, err
	}
	return s.AdminAccess(ctx, role)
}

// UserModules returns the union of modules across a user's active roles along
// with the merged permission document, without default fallbacks. A user whose
// roles list no modules gets an empty list here even though login grants the
// employee defaults.
func (s *Service) UserModules(ctx context.Context, userID int64) ([]string, permissions.Document, error) {
	grants, err := s.store.ActiveRoleGrants(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	docs := make([]permissions.Document, 0, len(grants))
	for _, g := range grants {
		doc, ok := permissions.Decode(g.Permissions)
		if !ok {
			if len(g.Permissions) > 0 {
				s.logger.Warn("unparseable role permissions", slog.String("role", g.RoleName))
			}
			continue
		}
		docs = append(docs, doc)
	}

	merged := permissions.Merge(docs)
	modules := permissions.NormalizeModules(merged.Modules())

	perms := permissions.Document{}
	for key, value := range merged {
		if key == "modules" {
			continue
		}
		perms[key] = value
	}
	return modules, perms, nil
}

// UserRoleModules returns the per-role module lists for a user, cached. The
// access gate checks these individually rather than the merged set: a module
// is granted when any single active role lists it. Roles specifying no
// modules grant nothing here; login-time defaults do not apply at the gate.
func (s *Service) UserRoleModules(ctx context.Context, userID int64) ([]RoleModules, error) {
	var out []RoleModules
	err := s.cache.FetchJSON(ctx, []string{"rbac:grant:user", strconv.FormatInt(userID, 10)}, &out,
		func(ctx context.Context) (any, error) {
			grants, err := s.store.ActiveRoleGrants(ctx, userID)
			if err != nil {
				return nil, err
			}
			perRole := make([]RoleModules, 0, len(grants))
			for _, g := range grants {
				doc, ok := permissions.Decode(g.Permissions)
				if !ok && len(g.Permissions) > 0 {
					s.logger.Warn("unparseable role permissions", slog.String("role", g.RoleName))
				}
				perRole = append(perRole, RoleModules{
					Role:    RoleRef{ID: g.RoleID, Name: g.RoleName},
					Modules: permissions.NormalizeModules(doc.Modules()),
				})
			}
			return perRole, nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops all cached grants after a role or assignment mutation.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump grant cache", slog.Any("error", err))
	}
}
