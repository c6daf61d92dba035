package postalcode

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

// Handler serves the postal code pages.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Renderer
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, pages: view.NewRenderer(logger, templates, csrf)}
}

// MountRoutes registers the lookup page.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.search)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := Query{Country: params.Get("country"), Region: params.Get("region"), Page: shared.PageFromQuery(params)}
	data := map[string]any{"Query": q}

	// the bare page is just the search form
	if params.Get("country") == "" && params.Get("region") == "" {
		h.pages.Page(w, r, http.StatusOK, "pages/postal_codes.html", "Postal codes", data)
		return
	}

	result, err := h.service.Search(r.Context(), q)
	var fe *httpx.FieldError
	switch {
	case errors.As(err, &fe):
		data["Query"] = result.Query
		data["Errors"] = map[string]string{fe.Field: fe.Message}
		h.pages.Page(w, r, http.StatusBadRequest, "pages/postal_codes.html", "Postal codes", data)
		return
	case err != nil:
		h.pages.Error(w, r, "Postal codes", err)
		return
	}
	data["Query"] = result.Query
	data["Codes"] = result.Codes
	data["Pagination"] = result.Pagination.WithBase("/postal-codes", params)
	data["Searched"] = true
	h.pages.Page(w, r, http.StatusOK, "pages/postal_codes.html", "Postal codes", data)
}
