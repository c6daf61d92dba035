package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/informreaders/portal/internal/account"
	"github.com/informreaders/portal/internal/admin"
	"github.com/informreaders/portal/internal/auth"
	"github.com/informreaders/portal/internal/bankcode"
	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/converter"
	"github.com/informreaders/portal/internal/coupon"
	"github.com/informreaders/portal/internal/observability"
	"github.com/informreaders/portal/internal/postalcode"
	"github.com/informreaders/portal/internal/rbac"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/software"
	"github.com/informreaders/portal/internal/tools"
	"github.com/informreaders/portal/internal/vehicle"
	"github.com/informreaders/portal/internal/view"
	"github.com/informreaders/portal/internal/weather"
	"github.com/informreaders/portal/jobs"
	"github.com/informreaders/portal/web"
)

// RouterParams groups dependencies for building the HTTP router. Nil
// handlers are skipped.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics

	BankCodeHandler   *bankcode.Handler
	PostalCodeHandler *postalcode.Handler
	CouponHandler     *coupon.Handler
	SoftwareHandler   *software.Handler
	VehicleHandler    *vehicle.Handler
	WeatherHandler    *weather.Handler
	ToolsHandler      *tools.Handler
	AccountHandler    *account.Handler

	AuthHandler        *auth.Handler
	AdminHandler       *admin.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with portal defaults.
func NewRouter(params RouterParams) http.Handler {
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	pages := view.NewRenderer(params.Logger, params.Templates, params.CSRFManager)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		pages.Page(w, r, http.StatusOK, "pages/home.html", "", map[string]any{
			"Categories":  converter.Categories(),
			"Calculators": tools.Financials(),
			"Formulas":    calculator.Formulas(),
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pages.Page(w, r, http.StatusNotFound, "pages/error.html", "Not found", map[string]any{
			"Status":  http.StatusNotFound,
			"Message": "The requested page could not be found.",
		})
	})

	if params.BankCodeHandler != nil {
		r.Route("/bank-codes", params.BankCodeHandler.MountRoutes)
	}
	if params.PostalCodeHandler != nil {
		r.Route("/postal-codes", params.PostalCodeHandler.MountRoutes)
	}
	if params.CouponHandler != nil {
		r.Route("/coupons", params.CouponHandler.MountRoutes)
	}
	if params.SoftwareHandler != nil {
		r.Route("/software", params.SoftwareHandler.MountRoutes)
	}
	if params.VehicleHandler != nil {
		params.VehicleHandler.MountRoutes(r)
	}
	if params.WeatherHandler != nil {
		params.WeatherHandler.MountRoutes(r)
	}
	if params.ToolsHandler != nil {
		params.ToolsHandler.MountRoutes(r)
		r.Route("/api", params.ToolsHandler.MountAPI)
	}
	if params.AccountHandler != nil {
		params.AccountHandler.MountRoutes(r)
	}

	r.Route("/admin", func(r chi.Router) {
		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(r)
		}
		if params.PermissionsHandler != nil {
			r.Route("/roles", params.PermissionsHandler.MountRoutes)
		}
		if params.AdminHandler != nil {
			params.AdminHandler.MountRoutes(r)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS())))
	r.Handle("/static/*", staticCacheHandler(fileServer))

	return r
}

// staticCacheHandler marks embedded assets cacheable for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
