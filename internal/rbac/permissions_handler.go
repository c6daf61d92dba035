package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

// PermissionsHandler shows which role grants which permission.
type PermissionsHandler struct {
	pages *view.Renderer
	rbac  Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{pages: view.NewRenderer(logger, templates, csrf), rbac: rbac}
}

// MountRoutes registers the roles page.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermAuditView))
		r.Get("/", h.listRoles)
	})
}

func (h *PermissionsHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	h.pages.Page(w, r, http.StatusOK, "pages/admin_roles.html", "Roles & permissions", map[string]any{
		"Grants":    Grants(),
		"Principal": p,
	})
}
