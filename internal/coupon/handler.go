package coupon

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

// Handler serves the coupon pages.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Renderer
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, pages: view.NewRenderer(logger, templates, csrf)}
}

// MountRoutes registers the coupon pages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	listing, err := h.service.List(r.Context(), params.Get("store"), shared.PageFromQuery(params))
	if err != nil {
		h.pages.Error(w, r, "Coupons", err)
		return
	}
	title := "Coupons & cashback offers"
	if listing.Store != "" {
		title = listing.Store + " coupons"
	}
	h.pages.Page(w, r, http.StatusOK, "pages/coupons.html", title, map[string]any{
		"Store":      listing.Store,
		"Coupons":    listing.Coupons,
		"Pagination": listing.Pagination.WithBase("/coupons", params),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.pages.Error(w, r, "Coupon", err)
		return
	}
	data := map[string]any{"Coupon": c}
	status := http.StatusOK
	if price := r.URL.Query().Get("price"); price != "" {
		data["Price"] = price
		result, err := Savings(c, price)
		switch {
		case errors.Is(err, calculator.ErrInvalidInput):
			data["SavingsError"] = calculator.UserMessage(err)
			status = http.StatusBadRequest
		case err != nil:
			h.pages.Error(w, r, "Coupon", err)
			return
		default:
			data["Savings"] = result
		}
	}
	h.pages.Page(w, r, status, "pages/coupon.html", c.Title, data)
}
