package vehicle

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

// Handler serves vehicle and specification pages.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Renderer
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, pages: view.NewRenderer(logger, templates, csrf)}
}

// MountRoutes registers /vehicles and /specifications.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/vehicles/{slug}", h.model)
	r.Get("/specifications/{categorySlug}", h.specification)
}

func (h *Handler) model(w http.ResponseWriter, r *http.Request) {
	model, err := h.service.Model(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.pages.Error(w, r, "Vehicle", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/vehicle.html", model.Brand+" "+model.Name, map[string]any{"Model": model})
}

func (h *Handler) specification(w http.ResponseWriter, r *http.Request) {
	spec, err := h.service.Specification(r.Context(), chi.URLParam(r, "categorySlug"), r.URL.Query().Get("brand"))
	if err != nil {
		h.pages.Error(w, r, "Specifications", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/specification.html", spec.Category.Name, map[string]any{"Spec": spec})
}
