package licenses

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/assetgrid/assetgrid/internal/auth"
	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/rbac"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Handler wires HTTP endpoints for the license inventory.
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

// MountRoutes registers license routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authmw.Authenticate)
	r.Use(h.guard.RequireModule("licenses"))
	r.Get("/", h.list)
	r.Get("/expiring", h.expiring)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	licenses, err := h.service.ListLicenses(r.Context())
	if err != nil {
		h.logger.Error("list licenses failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if licenses == nil {
		licenses = []License{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"licenses": licenses,
		"count":    len(licenses),
	})
}

func (h *Handler) expiring(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid days value")
			return
		}
		days = parsed
	}

	licenses, err := h.service.Expiring(r.Context(), days)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("list expiring licenses failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	if licenses == nil {
		licenses = []License{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"licenses": licenses,
		"count":    len(licenses),
	})
}
