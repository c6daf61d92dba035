package bankcode

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

// Handler serves the bank code pages.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Renderer
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, pages: view.NewRenderer(logger, templates, csrf)}
}

// MountRoutes registers the directory under the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.countries)
	r.Get("/{country}", h.banks)
	r.Get("/{country}/{bank}", h.branches)
	r.Get("/{country}/{bank}/{branch}", h.branch)
}

func (h *Handler) countries(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Countries(r.Context())
	if err != nil {
		h.pages.Error(w, r, "Bank codes", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/bank_countries.html", "Bank & SWIFT codes by country", map[string]any{"Countries": list})
}

func (h *Handler) banks(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	list, err := h.service.Banks(r.Context(), country)
	if err != nil {
		h.pages.Error(w, r, "Banks", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/bank_banks.html", "Banks", map[string]any{"Country": country, "Banks": list})
}

func (h *Handler) branches(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	bank := chi.URLParam(r, "bank")
	query := r.URL.Query().Get("q")
	list, err := h.service.Branches(r.Context(), country, bank, query)
	if err != nil {
		h.pages.Error(w, r, "Branches", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/bank_branches.html", "Branches", map[string]any{
		"Country":  country,
		"Bank":     bank,
		"Query":    query,
		"Branches": list,
	})
}

func (h *Handler) branch(w http.ResponseWriter, r *http.Request) {
	country, bank := chi.URLParam(r, "country"), chi.URLParam(r, "bank")
	detail, err := h.service.Branch(r.Context(), country, bank, chi.URLParam(r, "branch"))
	if err != nil {
		h.pages.Error(w, r, "SWIFT code", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/bank_branch.html", detail.Bank+" "+detail.Branch+" SWIFT code", map[string]any{
		"Country": country,
		"BankURL": "/bank-codes/" + country + "/" + bank,
		"Branch":  detail,
	})
}
