package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Handler exposes module visibility lookups over HTTP. Routes expect an
// authenticated request; the caller mounts them behind the auth middleware.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers module lookup routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/admin", h.adminModules)
	r.Get("/user/{userID}", h.userModules)
}

func (h *Handler) adminModules(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if !id.IsAdmin() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Admin ID not found in token")
		return
	}

	grant, err := h.service.AdminGrantByID(r.Context(), id.AdminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "Admin not found")
			return
		}
		h.logger.Error("resolve admin modules", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Error fetching admin modules")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"adminId":     id.AdminID,
		"modules":     grant.Modules,
		"permissions": grant.Permissions,
		"count":       len(grant.Modules),
	})
}

func (h *Handler) userModules(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid user ID")
		return
	}

	modules, perms, err := h.service.UserModules(r.Context(), userID)
	if err != nil {
		h.logger.Error("resolve user modules", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Error fetching user modules")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"userId":      userID,
		"modules":     modules,
		"permissions": perms,
		"count":       len(modules),
	})
}
