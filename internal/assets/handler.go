package assets

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetgrid/assetgrid/internal/auth"
	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/rbac"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Handler wires HTTP endpoints for asset management.
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

// MountRoutes registers asset routes on the provided router. The employee
// self-service view only needs a valid token; everything else sits behind the
// assets module gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authmw.Authenticate)
	r.Get("/my", h.myAssets)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireModule("assets"))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Post("/assign", h.assign)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.ListAssets(r.Context())
	if err != nil {
		h.respondError(w, err, "list assets")
		return
	}
	if assets == nil {
		assets = []Asset{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"assets":  assets,
		"count":   len(assets),
	})
}

type createAssetRequest struct {
	AssetName    string `json:"assetName"`
	AssetType    string `json:"assetType"`
	SerialNumber string `json:"serialNumber"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Status       string `json:"status"`
	Location     string `json:"location"`
	Description  string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid request body")
		return
	}

	asset, err := h.service.CreateAsset(r.Context(), shared.IdentityFromContext(r.Context()), CreateAssetInput{
		Name:         req.AssetName,
		Type:         req.AssetType,
		SerialNumber: req.SerialNumber,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Status:       req.Status,
		Location:     req.Location,
		Description:  req.Description,
	})
	if err != nil {
		h.respondError(w, err, "create asset")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"asset":   asset,
	})
}

type assignAssetRequest struct {
	AssetID int64  `json:"assetId"`
	UserID  int64  `json:"userId"`
	Notes   string `json:"notes"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req assignAssetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Invalid request body")
		return
	}

	assignmentID, err := h.service.AssignAsset(r.Context(), shared.IdentityFromContext(r.Context()), AssignInput{
		AssetID: req.AssetID,
		UserID:  req.UserID,
		Notes:   req.Notes,
	})
	if err != nil {
		h.respondError(w, err, "assign asset")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"message":      "Asset assigned successfully",
		"assignmentId": assignmentID,
	})
}

func (h *Handler) myAssets(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if !id.IsUser() {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "User authentication required")
		return
	}

	assigned, err := h.service.UserAssets(r.Context(), id.UserID)
	if err != nil {
		h.respondError(w, err, "list my assets")
		return
	}
	if assigned == nil {
		assigned = []AssignedAsset{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"assets":  assigned,
		"count":   len(assigned),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrNotFound):
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
