package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/assetgrid/assetgrid/internal/assets"
	"github.com/assetgrid/assetgrid/internal/auth"
	"github.com/assetgrid/assetgrid/internal/dashboard"
	"github.com/assetgrid/assetgrid/internal/employees"
	"github.com/assetgrid/assetgrid/internal/licenses"
	"github.com/assetgrid/assetgrid/internal/monitoring"
	"github.com/assetgrid/assetgrid/internal/rbac"
	"github.com/assetgrid/assetgrid/internal/roles"
	"github.com/assetgrid/assetgrid/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	RolesHandler      *roles.Handler
	ModulesHandler    *rbac.Handler
	EmployeesHandler  *employees.Handler
	AssetsHandler     *assets.Handler
	LicensesHandler   *licenses.Handler
	MonitoringHandler *monitoring.Handler
	DashboardHandler  *dashboard.Handler
	JobsHandler       *jobs.Handler
	AuthMiddleware    auth.Middleware
}

// NewRouter constructs the chi.Router with AssetGrid defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", params.AuthHandler.MountRoutes)
	if params.RolesHandler != nil {
		r.Route("/api/roles", params.RolesHandler.MountRoutes)
	}
	if params.ModulesHandler != nil {
		r.Route("/api/modules", func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			params.ModulesHandler.MountRoutes(r)
		})
	}
	if params.EmployeesHandler != nil {
		r.Route("/api/employees", params.EmployeesHandler.MountRoutes)
	}
	if params.AssetsHandler != nil {
		r.Route("/api/assets", params.AssetsHandler.MountRoutes)
	}
	if params.LicensesHandler != nil {
		r.Route("/api/licenses", params.LicensesHandler.MountRoutes)
	}
	if params.MonitoringHandler != nil {
		r.Route("/api/monitoring", params.MonitoringHandler.MountRoutes)
	}
	if params.DashboardHandler != nil {
		r.Route("/api/dashboard", params.DashboardHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/api/jobs", params.JobsHandler.MountRoutes)
	}

	return r
}
