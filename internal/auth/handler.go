package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authmw    Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authmw:    authmw,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.adminLogin)
	r.Post("/user/login", h.userLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Authenticate)
		r.Get("/verify", h.verifyAdmin)
		r.Get("/user/verify", h.verifyUser)
		r.Post("/logout", h.logout)
		r.Post("/user/logout", h.logout)
	})
}

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) decodeCredentials(r *http.Request) (credentials, error) {
	var creds credentials
	if err := httpx.DecodeJSON(r, &creds); err != nil {
		return creds, shared.ErrValidation
	}
	if err := h.validator.Struct(creds); err != nil {
		return creds, shared.ErrValidation
	}
	return creds, nil
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := h.decodeCredentials(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Username and password are required")
		return
	}
	session, err := h.service.LoginAdmin(r.Context(), creds.Username, creds.Password)
	if err != nil {
		h.respondLoginError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   session.Token,
		"admin":   session.Admin,
	})
}

func (h *Handler) userLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := h.decodeCredentials(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Username and password are required")
		return
	}
	session, err := h.service.LoginUser(r.Context(), creds.Username, creds.Password)
	if err != nil {
		h.respondLoginError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   session.Token,
		"user":    session.User,
	})
}

func (h *Handler) respondLoginError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrInvalidCredentials) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Invalid username or password")
		return
	}
	h.logger.Error("login failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}

func (h *Handler) verifyAdmin(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if !id.IsAdmin() {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "Admin access required")
		return
	}
	profile, err := h.service.CurrentAdmin(r.Context(), id.AdminID)
	if err != nil {
		h.logger.Error("verify admin", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"admin":         profile,
	})
}

func (h *Handler) verifyUser(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if !id.IsUser() {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "User access required")
		return
	}
	profile, err := h.service.CurrentUser(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("verify user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          profile,
	})
}

// logout exists for API symmetry: tokens are stateless, so the client simply
// discards its copy.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}
