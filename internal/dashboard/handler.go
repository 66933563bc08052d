package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetgrid/assetgrid/internal/auth"
	"github.com/assetgrid/assetgrid/internal/platform/httpx"
)

// Handler wires the dashboard overview endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authmw  auth.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw}
}

// MountRoutes registers dashboard routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authmw.Authenticate)
	r.Get("/overview", h.overview)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("dashboard overview failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Failed to load dashboard overview")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"overview": overview,
	})
}
