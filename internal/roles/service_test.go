package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/shared"
)

type assignmentKey struct {
	userID int64
	roleID int64
}

type fakeRepo struct {
	nextRoleID   int64
	nextAssignID int64
	roles        map[int64]Role
	users        map[int64]UserSummary
	assignments  map[assignmentKey]*Assignment
	inactive     map[assignmentKey]bool
	clock        time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		roles:       map[int64]Role{},
		users:       map[int64]UserSummary{},
		assignments: map[assignmentKey]*Assignment{},
		inactive:    map[assignmentKey]bool{},
		clock:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeRepo) CreateRole(_ context.Context, name, description string, perms permissions.Document) (Role, error) {
	for _, r := range f.roles {
		if strings.EqualFold(r.Name, name) {
			return Role{}, fmt.Errorf("%w: role with this name already exists", shared.ErrDuplicate)
		}
	}
	f.nextRoleID++
	role := Role{
		ID: f.nextRoleID, Name: name, Description: description,
		Permissions: perms, IsActive: true, CreatedAt: f.tick(),
	}
	f.roles[role.ID] = role
	return role, nil
}

func (f *fakeRepo) ListRoles(_ context.Context, includeInactive bool) ([]Role, error) {
	var out []Role
	for _, r := range f.roles {
		if r.IsActive || includeInactive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRole(_ context.Context, id int64) (Role, error) {
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return Role{}, fmt.Errorf("%w: role not found", shared.ErrNotFound)
}

func (f *fakeRepo) FindUserByEmployeeID(_ context.Context, employeeID string) (UserSummary, error) {
	for _, u := range f.users {
		if u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return UserSummary{}, fmt.Errorf("%w: user not found with the provided employee ID", shared.ErrNotFound)
}

func (f *fakeRepo) ActiveUserExists(_ context.Context, userID int64) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeRepo) ActiveRoleExists(_ context.Context, roleID int64) (bool, error) {
	r, ok := f.roles[roleID]
	return ok && r.IsActive, nil
}

func (f *fakeRepo) UpsertAssignment(_ context.Context, userID, roleID, assignedBy int64) (Assignment, error) {
	key := assignmentKey{userID, roleID}
	if existing, ok := f.assignments[key]; ok {
		existing.AssignedBy = assignedBy
		existing.AssignedAt = f.tick()
		f.inactive[key] = false
		return *existing, nil
	}
	f.nextAssignID++
	a := &Assignment{
		ID: f.nextAssignID, UserID: userID, RoleID: roleID,
		AssignedBy: assignedBy, AssignedAt: f.tick(),
	}
	f.assignments[key] = a
	return *a, nil
}

func (f *fakeRepo) ListUserRoles(_ context.Context, userID int64) ([]UserRole, error) {
	var out []UserRole
	for key, a := range f.assignments {
		if key.userID != userID || f.inactive[key] {
			continue
		}
		role := f.roles[key.roleID]
		out = append(out, UserRole{
			AssignmentID: a.ID, RoleID: role.ID, RoleName: role.Name,
			Permissions: role.Permissions, AssignedBy: a.AssignedBy, AssignedAt: a.AssignedAt,
		})
	}
	return out, nil
}

func (f *fakeRepo) DeactivateAssignment(_ context.Context, userID, roleID int64) error {
	key := assignmentKey{userID, roleID}
	if _, ok := f.assignments[key]; !ok || f.inactive[key] {
		return fmt.Errorf("%w: role assignment not found", shared.ErrNotFound)
	}
	f.inactive[key] = true
	return nil
}

type fakeInvalidator struct {
	bumps int
}

func (f *fakeInvalidator) Invalidate(context.Context) {
	f.bumps++
}

func adminActor() *shared.Identity {
	return &shared.Identity{AdminID: 1, Username: "root", Role: "Super Admin"}
}

func newTestService(repo Repository, grants GrantInvalidator) *Service {
	return NewService(repo, grants, nil, slog.Default())
}

func TestCreateRole(t *testing.T) {
	repo := newFakeRepo()
	inv := &fakeInvalidator{}
	svc := newTestService(repo, inv)

	role, err := svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{
		Name:        "  Asset Viewer  ",
		Description: "Read-only asset access",
		Permissions: permissions.Document{"modules": []any{"assets"}},
	})
	require.NoError(t, err)
	require.Equal(t, "Asset Viewer", role.Name)
	require.True(t, role.IsActive)
	require.Equal(t, 1, inv.bumps)
}

func TestCreateRoleValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeInvalidator{})

	_, err := svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{
		Name: strings.Repeat("x", maxRoleNameLength+1),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRoleDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeInvalidator{})

	_, err := svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{Name: "Asset Viewer"})
	require.NoError(t, err)

	_, err = svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{Name: "Asset Viewer"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestAssignRole(t *testing.T) {
	repo := newFakeRepo()
	repo.users[5] = UserSummary{ID: 5, Username: "jdoe", EmployeeID: "EMP-005"}
	inv := &fakeInvalidator{}
	svc := newTestService(repo, inv)

	role, err := svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{Name: "Asset Viewer"})
	require.NoError(t, err)

	assignment, err := svc.AssignRole(context.Background(), adminActor(), AssignInput{UserID: 5, RoleID: role.ID})
	require.NoError(t, err)
	require.Equal(t, int64(5), assignment.UserID)
	require.Equal(t, int64(1), assignment.AssignedBy)
	require.Equal(t, 2, inv.bumps)
}

func TestAssignRoleReassignmentKeepsOneRow(t *testing.T) {
	repo := newFakeRepo()
	repo.users[5] = UserSummary{ID: 5, Username: "jdoe"}
	svc := newTestService(repo, &fakeInvalidator{})

	role, err := svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{Name: "Asset Viewer"})
	require.NoError(t, err)

	first, err := svc.AssignRole(context.Background(), adminActor(), AssignInput{UserID: 5, RoleID: role.ID})
	require.NoError(t, err)

	second, err := svc.AssignRole(context.Background(), &shared.Identity{AdminID: 2, Role: "Admin"},
		AssignInput{UserID: 5, RoleID: role.ID})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, int64(2), second.AssignedBy)
	require.True(t, second.AssignedAt.After(first.AssignedAt))

	userRoles, err := svc.UserRoles(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, userRoles, 1)
}

func TestAssignRoleReactivatesRemovedAssignment(t *testing.T) {
	repo := newFakeRepo()
	repo.users[5] = UserSummary{ID: 5, Username: "jdoe"}
	svc := newTestService(repo, &fakeInvalidator{})

	role, err := svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{Name: "Asset Viewer"})
	require.NoError(t, err)

	_, err = svc.AssignRole(context.Background(), adminActor(), AssignInput{UserID: 5, RoleID: role.ID})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveRole(context.Background(), adminActor(), 5, role.ID))

	userRoles, err := svc.UserRoles(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, userRoles)

	_, err = svc.AssignRole(context.Background(), adminActor(), AssignInput{UserID: 5, RoleID: role.ID})
	require.NoError(t, err)

	userRoles, err = svc.UserRoles(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, userRoles, 1)
}

func TestAssignRoleByEmployeeID(t *testing.T) {
	repo := newFakeRepo()
	repo.users[9] = UserSummary{ID: 9, Username: "asmith", EmployeeID: "EMP-009"}
	svc := newTestService(repo, &fakeInvalidator{})

	role, err := svc.CreateRole(context.Background(), adminActor(), CreateRoleInput{Name: "Monitor"})
	require.NoError(t, err)

	assignment, err := svc.AssignRole(context.Background(), adminActor(), AssignInput{EmployeeID: "EMP-009", RoleID: role.ID})
	require.NoError(t, err)
	require.Equal(t, int64(9), assignment.UserID)
}

func TestAssignRoleValidation(t *testing.T) {
	repo := newFakeRepo()
	repo.users[5] = UserSummary{ID: 5}
	svc := newTestService(repo, &fakeInvalidator{})

	_, err := svc.AssignRole(context.Background(), adminActor(), AssignInput{UserID: 5})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.AssignRole(context.Background(), adminActor(), AssignInput{RoleID: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.AssignRole(context.Background(), adminActor(), AssignInput{UserID: 5, RoleID: 99})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.AssignRole(context.Background(), adminActor(), AssignInput{UserID: 42, RoleID: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRemoveRoleNotAssigned(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeInvalidator{})

	err := svc.RemoveRole(context.Background(), adminActor(), 5, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
