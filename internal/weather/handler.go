package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

const upcomingLimit = 5

// Handler serves the weather and holiday pages.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   *view.Renderer
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, pages: view.NewRenderer(logger, templates, csrf)}
}

// MountRoutes registers /weather and /holidays.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/weather", h.weather)
	r.Get("/holidays", h.holidayList)
}

func (h *Handler) weather(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	city := params.Get("city")
	country := params.Get("country")
	days, _ := strconv.Atoi(params.Get("days"))
	data := map[string]any{"City": city, "Country": country, "Days": ClampDays(days), "MaxDays": MaxDays}

	if city == "" {
		h.pages.Page(w, r, http.StatusOK, "pages/weather.html", "Weather forecast", data)
		return
	}

	var (
		forecast   Forecast
		holidays   []Holiday
		holidayErr error
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		forecast, err = h.service.Forecast(ctx, city, days)
		return err
	})
	if country != "" {
		g.Go(func() error {
			// holidays are a side panel; their failure never fails the page
			holidayErr = h.loadUpcoming(ctx, country, &holidays)
			return nil
		})
	}
	err := g.Wait()

	var fe *httpx.FieldError
	switch {
	case errors.As(err, &fe):
		data["Errors"] = map[string]string{fe.Field: fe.Message}
		h.pages.Page(w, r, http.StatusBadRequest, "pages/weather.html", "Weather forecast", data)
		return
	case err != nil:
		h.pages.Error(w, r, "Weather forecast", err)
		return
	}

	data["Forecast"] = forecast
	data["Holidays"] = holidays
	if holidayErr != nil {
		data["HolidayError"] = httpx.UserMessage(holidayErr)
	}
	h.pages.Page(w, r, http.StatusOK, "pages/weather.html", forecast.Location.Name+" weather", data)
}

func (h *Handler) loadUpcoming(ctx context.Context, country string, out *[]Holiday) error {
	list, err := h.service.Upcoming(ctx, country, upcomingLimit)
	if err != nil {
		if !errors.Is(err, httpx.ErrValidation) {
			h.logger.Warn("load upcoming holidays", slog.String("country", country), slog.Any("error", err))
		}
		return err
	}
	*out = list
	return nil
}

func (h *Handler) holidayList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	country := params.Get("country")
	year, _ := strconv.Atoi(params.Get("year"))
	data := map[string]any{"Country": country, "Year": year}

	if country == "" {
		h.pages.Page(w, r, http.StatusOK, "pages/holidays.html", "Public holidays", data)
		return
	}

	list, err := h.service.Holidays(r.Context(), country, year)
	var fe *httpx.FieldError
	switch {
	case errors.As(err, &fe):
		data["Errors"] = map[string]string{fe.Field: fe.Message}
		h.pages.Page(w, r, http.StatusBadRequest, "pages/holidays.html", "Public holidays", data)
		return
	case err != nil:
		h.pages.Error(w, r, "Public holidays", err)
		return
	}
	if year == 0 {
		year = h.service.now().Year()
	}
	data["Year"] = year
	data["Holidays"] = list
	data["Searched"] = true
	h.pages.Page(w, r, http.StatusOK, "pages/holidays.html", "Public holidays "+strconv.Itoa(year), data)
}
