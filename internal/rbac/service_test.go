package rbac

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assetgrid/assetgrid/internal/shared"
)

type fakeStore struct {
	adminRoles map[int64]string
	rolePerms  map[string][]byte
	userGrants map[int64][]StoredGrant
	err        error
}

func (f *fakeStore) AdminRole(_ context.Context, adminID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if role, ok := f.adminRoles[adminID]; ok {
		return role, nil
	}
	return "", shared.ErrNotFound
}

func (f *fakeStore) RolePermissionsByName(_ context.Context, name string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if raw, ok := f.rolePerms[name]; ok {
		return raw, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeStore) ActiveRoleGrants(_ context.Context, userID int64) ([]StoredGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userGrants[userID], nil
}

func newTestService(store Store) *Service {
	return NewService(store, nil, slog.Default())
}

func TestAdminAccessCanonicalRoles(t *testing.T) {
	svc := newTestService(&fakeStore{})

	grant, err := svc.AdminAccess(context.Background(), "Super Admin")
	require.NoError(t, err)
	require.Equal(t, []string{"assets", "licenses", "users", "roles", "reports", "settings"}, grant.Modules)
	require.Equal(t, true, grant.Permissions["manage_users"])

	grant, err = svc.AdminAccess(context.Background(), "Operator")
	require.NoError(t, err)
	require.Equal(t, []string{"assets", "reports"}, grant.Modules)
	require.Equal(t, false, grant.Permissions["manage_users"])
	require.Equal(t, true, grant.Permissions["manage_infrastructure"])
}

func TestAdminAccessGenericRole(t *testing.T) {
	store := &fakeStore{rolePerms: map[string][]byte{
		"Auditor": []byte(`{"modules": [" Reports ", "LICENSES"], "view_reports": true}`),
	}}
	svc := newTestService(store)

	grant, err := svc.AdminAccess(context.Background(), "Auditor")
	require.NoError(t, err)
	require.Equal(t, []string{"reports", "licenses"}, grant.Modules)
	require.Equal(t, true, grant.Permissions["view_reports"])
}

func TestAdminAccessGenericRoleFallsBackToDefaults(t *testing.T) {
	svc := newTestService(&fakeStore{})

	grant, err := svc.AdminAccess(context.Background(), "Unknown Role")
	require.NoError(t, err)
	require.Equal(t, []string{"assets", "licenses", "monitoring", "reports", "roles"}, grant.Modules)
}

func TestUserAccessMergesRoles(t *testing.T) {
	store := &fakeStore{userGrants: map[int64][]StoredGrant{
		7: {
			{RoleID: 1, RoleName: "Asset Viewer", Permissions: []byte(`{"modules": ["assets"], "edit": false}`)},
			{RoleID: 2, RoleName: "Monitor", Permissions: []byte(`{"modules": ["monitoring", "assets"], "edit": true}`)},
		},
	}}
	svc := newTestService(store)

	grant, err := svc.UserAccess(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, grant.Roles, 2)
	require.Equal(t, []string{"assets", "monitoring"}, grant.Modules)
	require.Equal(t, true, grant.Permissions["edit"])
}

func TestUserAccessAppliesDefaults(t *testing.T) {
	svc := newTestService(&fakeStore{})

	grant, err := svc.UserAccess(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, grant.Roles)
	require.Equal(t, []string{"assets"}, grant.Modules)
}

func TestUserAccessSkipsUnparseablePermissions(t *testing.T) {
	store := &fakeStore{userGrants: map[int64][]StoredGrant{
		7: {
			{RoleID: 1, RoleName: "Broken", Permissions: []byte(`{not json`)},
			{RoleID: 2, RoleName: "Monitor", Permissions: []byte(`{"modules": ["monitoring"]}`)},
		},
	}}
	svc := newTestService(store)

	grant, err := svc.UserAccess(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, grant.Roles, 2)
	require.Equal(t, []string{"monitoring"}, grant.Modules)
}

func TestUserModulesWithoutDefaults(t *testing.T) {
	store := &fakeStore{userGrants: map[int64][]StoredGrant{
		7: {
			{RoleID: 1, RoleName: "Helpdesk", Permissions: []byte(`{"reset_passwords": true}`)},
		},
	}}
	svc := newTestService(store)

	modules, perms, err := svc.UserModules(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, modules)
	require.Equal(t, true, perms["reset_passwords"])
	require.NotContains(t, perms, "modules")
}

func TestUserRoleModulesPerRole(t *testing.T) {
	store := &fakeStore{userGrants: map[int64][]StoredGrant{
		7: {
			{RoleID: 1, RoleName: "Asset Viewer", Permissions: []byte(`{"modules": ["assets"]}`)},
			{RoleID: 2, RoleName: "Helpdesk", Permissions: []byte(`{}`)},
		},
	}}
	svc := newTestService(store)

	perRole, err := svc.UserRoleModules(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, perRole, 2)
	require.Equal(t, []string{"assets"}, perRole[0].Modules)
	require.Empty(t, perRole[1].Modules)
}

func TestUserAccessPropagatesStoreError(t *testing.T) {
	svc := newTestService(&fakeStore{err: errors.New("connection reset")})

	_, err := svc.UserAccess(context.Background(), 7)
	require.Error(t, err)
}
