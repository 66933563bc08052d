package rbac

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/platform/httpx"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Middleware wires module-access guards for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireModule ensures the current principal may access the named module.
// Admins resolve through their role class or stored role; users are allowed
// when any individual active role lists the module.
func (m Middleware) RequireModule(module string) func(http.Handler) http.Handler {
	required := strings.ToLower(strings.TrimSpace(module))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if required == "" {
				next.ServeHTTP(w, r)
				return
			}
			id := shared.IdentityFromContext(r.Context())
			switch {
			case id.IsAdmin():
				modules, err := m.Service.AdminModules(r.Context(), id.AdminID)
				if err != nil {
					m.respondResolveError(w, err, required)
					return
				}
				if permissions.ContainsModule(modules, required) {
					next.ServeHTTP(w, r)
					return
				}
				m.deny(w, required)
			case id.IsUser():
				grants, err := m.Service.UserRoleModules(r.Context(), id.UserID)
				if err != nil {
					m.respondResolveError(w, err, required)
					return
				}
				for _, g := range grants {
					if permissions.ContainsModule(g.Modules, required) {
						next.ServeHTTP(w, r)
						return
					}
				}
				m.deny(w, required)
			default:
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "User information not found")
			}
		})
	}
}

// RequireAdmin ensures the current principal is an admin account.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := shared.IdentityFromContext(r.Context())
		if id == nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "User information not found")
			return
		}
		if !id.IsAdmin() {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m Middleware) deny(w http.ResponseWriter, module string) {
	detail := fmt.Sprintf("Access denied. You don't have permission to access %s module.", module)
	httpx.Problem(w, http.StatusForbidden, "Forbidden", detail)
}

func (m Middleware) respondResolveError(w http.ResponseWriter, err error, module string) {
	if errors.Is(err, shared.ErrNotFound) {
		m.deny(w, module)
		return
	}
	if m.Logger != nil {
		m.Logger.Error("resolve module access", slog.Any("error", err))
	}
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Error checking module access")
}
