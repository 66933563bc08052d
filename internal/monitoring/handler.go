package monitoring

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetgrid/assetgrid/internal/auth"
	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/rbac"
)

// Handler wires HTTP endpoints for device monitoring.
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

// MountRoutes registers monitoring routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authmw.Authenticate)
	r.Use(h.guard.RequireModule("monitoring"))
	r.Get("/devices", h.devices)
	r.Get("/alerts", h.alerts)
}

func (h *Handler) devices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.service.Devices(r.Context())
	if err != nil {
		h.logger.Error("list devices failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Failed to load device data")
		return
	}
	if devices == nil {
		devices = []Device{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"devices": devices,
		"count":   len(devices),
	})
}

func (h *Handler) alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Alerts(r.Context())
	if err != nil {
		h.logger.Error("list alerts failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Failed to load downtime/traffic alerts")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"offline":         alerts.Offline,
		"abnormalTraffic": alerts.AbnormalTraffic,
	})
}
