package software

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

// Handler serves the software directory.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Renderer
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, pages: view.NewRenderer(logger, templates, csrf)}
}

// MountRoutes registers the directory pages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	listing, err := h.service.List(r.Context(), backend.SoftwareFilter{
		Category: params.Get("category"),
		Search:   params.Get("search"),
		Page:     shared.PageFromQuery(params),
	})
	if err != nil {
		h.pages.Error(w, r, "Software", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/software_list.html", "Free software downloads", map[string]any{
		"Filter":     listing.Filter,
		"Items":      listing.Items,
		"Pagination": listing.Pagination.WithBase("/software", params),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.pages.Error(w, r, "Software", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/software.html", item.Name+" "+item.Version, map[string]any{"Software": item})
}
