package auth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/rbac"
)

func newTestRouter(t *testing.T, repo Repository, access AccessResolver) (chi.Router, *TokenManager) {
	t.Helper()
	tokens := NewTokenManager("test-secret", time.Hour)
	svc := NewService(repo, access, tokens, slog.Default())
	mw := Middleware{Tokens: tokens, Logger: slog.Default()}
	handler := NewHandler(slog.Default(), svc, mw)

	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r, tokens
}

func postJSON(t *testing.T, r chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminLoginEndpoint(t *testing.T) {
	repo := &fakeRepo{admins: map[string]*Admin{
		"root": {ID: 1, Username: "root", Role: "Super Admin", PasswordHash: mustHash(t, "secret"), IsActive: true},
	}}
	access := &fakeResolver{admin: rbac.AdminGrant{
		Class:   permissions.RoleClassSuperAdmin,
		Modules: []string{"assets", "licenses", "users", "roles", "reports", "settings"},
	}}
	r, _ := newTestRouter(t, repo, access)

	rec := postJSON(t, r, "/api/auth/login", map[string]string{"username": "root", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Admin   struct {
			Username string   `json:"username"`
			Modules  []string `json:"modules"`
		} `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.NotEmpty(t, body.Token)
	require.Equal(t, "root", body.Admin.Username)
	require.Contains(t, body.Admin.Modules, "roles")
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	repo := &fakeRepo{admins: map[string]*Admin{
		"root": {ID: 1, Username: "root", Role: "Admin", PasswordHash: mustHash(t, "secret"), IsActive: true},
	}}
	r, _ := newTestRouter(t, repo, &fakeResolver{})

	rec := postJSON(t, r, "/api/auth/login", map[string]string{"username": "root", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLoginValidatesPayload(t *testing.T) {
	r, _ := newTestRouter(t, &fakeRepo{}, &fakeResolver{})

	rec := postJSON(t, r, "/api/auth/login", map[string]string{"username": "root"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserLoginEndpoint(t *testing.T) {
	repo := &fakeRepo{users: map[string]*User{
		"jdoe": {ID: 42, Username: "jdoe", PasswordHash: mustHash(t, "hunter2"), IsActive: true},
	}}
	access := &fakeResolver{user: rbac.UserGrant{
		Roles:   []rbac.RoleRef{{ID: 2, Name: "Asset Viewer"}},
		Modules: []string{"assets"},
	}}
	r, _ := newTestRouter(t, repo, access)

	rec := postJSON(t, r, "/api/auth/user/login", map[string]string{"username": "jdoe", "password": "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID      int64    `json:"id"`
			Modules []string `json:"modules"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(42), body.User.ID)
	require.Equal(t, []string{"assets"}, body.User.Modules)
}

func TestVerifyEndpointRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t, &fakeRepo{}, &fakeResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyEndpointRejectsExpiredToken(t *testing.T) {
	r, tokens := newTestRouter(t, &fakeRepo{}, &fakeResolver{})

	issued := time.Now().Add(-2 * time.Hour)
	tokens.WithNow(func() time.Time { return issued })
	token, err := tokens.Issue(Claims{AdminID: 1, Username: "root", Role: "Admin"})
	require.NoError(t, err)
	tokens.WithNow(time.Now)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifyEndpointReturnsProfile(t *testing.T) {
	repo := &fakeRepo{admins: map[string]*Admin{
		"root": {ID: 1, Username: "root", Role: "Operator", PasswordHash: mustHash(t, "secret"), IsActive: true},
	}}
	access := &fakeResolver{admin: rbac.AdminGrant{
		Class:   permissions.RoleClassOperator,
		Modules: []string{"assets", "reports"},
	}}
	r, tokens := newTestRouter(t, repo, access)

	token, err := tokens.Issue(Claims{AdminID: 1, Username: "root", Role: "Operator"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Authenticated bool `json:"authenticated"`
		Admin         struct {
			Modules []string `json:"modules"`
		} `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Authenticated)
	require.Equal(t, []string{"assets", "reports"}, body.Admin.Modules)
}

func TestLogoutEndpoint(t *testing.T) {
	r, tokens := newTestRouter(t, &fakeRepo{}, &fakeResolver{})

	token, err := tokens.Issue(Claims{UserID: 9, Username: "jdoe", UserType: "employee"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/user/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Logged out successfully")
}
