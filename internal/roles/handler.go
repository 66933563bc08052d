package roles

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/assetgrid/assetgrid/internal/auth"
	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/rbac"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Handler wires HTTP endpoints for role management.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authmw  auth.Middleware
	guard   rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw, guard: guard}
}

// MountRoutes registers role routes on the provided router. Management
// endpoints require an admin with the roles module; lookups only require a
// valid token.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authmw.Authenticate)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAdmin)
		r.Use(h.guard.RequireModule("roles"))
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{roleID}", h.get)
		r.Post("/assign", h.assign)
		r.Delete("/assign/{userID}/{roleID}", h.remove)
	})
	r.Get("/user/employee/{employeeID}", h.findUserByEmployee)
	r.Get("/user/{userID}", h.userRoles)
}

type createRoleRequest struct {
	RoleName    string               `json:"roleName"`
	Description string               `json:"description"`
	Permissions permissions.Document `json:"permissions"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid request body")
		return
	}

	role, err := h.service.CreateRole(r.Context(), shared.IdentityFromContext(r.Context()), CreateRoleInput{
		Name:        req.RoleName,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.respondError(w, err, "create role")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"role":    role,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	roles, err := h.service.ListRoles(r.Context(), includeInactive)
	if err != nil {
		h.respondError(w, err, "list roles")
		return
	}
	if roles == nil {
		roles = []Role{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"roles":   roles,
		"count":   len(roles),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid role ID")
		return
	}

	role, err := h.service.GetRole(r.Context(), roleID)
	if err != nil {
		h.respondError(w, err, "get role")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"role":    role,
	})
}

func (h *Handler) findUserByEmployee(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.FindUserByEmployeeID(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.respondError(w, err, "find user by employee id")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

type assignRequest struct {
	UserID     int64  `json:"userId"`
	EmployeeID string `json:"employeeId"`
	RoleID     int64  `json:"roleId"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid request body")
		return
	}

	assignment, err := h.service.AssignRole(r.Context(), shared.IdentityFromContext(r.Context()), AssignInput{
		UserID:     req.UserID,
		EmployeeID: req.EmployeeID,
		RoleID:     req.RoleID,
	})
	if err != nil {
		h.respondError(w, err, "assign role")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "Role assigned successfully",
		"assignment": assignment,
	})
}

func (h *Handler) userRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid user ID")
		return
	}

	userRoles, err := h.service.UserRoles(r.Context(), userID)
	if err != nil {
		h.respondError(w, err, "list user roles")
		return
	}
	if userRoles == nil {
		userRoles = []UserRole{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"userId":  userID,
		"roles":   userRoles,
		"count":   len(userRoles),
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid user ID or role ID")
		return
	}
	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid user ID or role ID")
		return
	}

	if err := h.service.RemoveRole(r.Context(), shared.IdentityFromContext(r.Context()), userID, roleID); err != nil {
		h.respondError(w, err, "remove role")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Role removed from user successfully",
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrDuplicate):
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
