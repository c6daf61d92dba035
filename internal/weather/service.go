package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
)

const (
	// DefaultDays is the forecast length when none is requested.
	DefaultDays = 7
	// MaxDays is the longest forecast Open-Meteo serves.
	MaxDays = 16

	warmConcurrency = 4
)

// Forecaster resolves cities and fetches daily forecasts.
type Forecaster interface {
	Geocode(ctx context.Context, city string) (Location, error)
	Daily(ctx context.Context, lat, lon float64, days int) ([]Day, error)
}

// HolidaySource lists public holidays.
type HolidaySource interface {
	PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error)
}

// Service combines forecasts and holidays behind the response cache.
type Service struct {
	forecast Forecaster
	holidays HolidaySource
	cache    *backend.Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the service. cache may be nil.
func NewService(forecast Forecaster, holidays HolidaySource, cache *backend.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{forecast: forecast, holidays: holidays, cache: cache, logger: logger, now: time.Now}
}

// ClampDays bounds a requested forecast length to 1..MaxDays.
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultDays
	case days > MaxDays:
		return MaxDays
	default:
		return days
	}
}

// Forecast returns the daily forecast for a city.
func (s *Service) Forecast(ctx context.Context, city string, days int) (Forecast, error) {
	city = strings.Join(strings.Fields(city), " ")
	if city == "" {
		return Forecast{}, &httpx.FieldError{Field: "city", Message: "Please enter a city."}
	}
	if len([]rune(city)) > 80 {
		return Forecast{}, &httpx.FieldError{Field: "city", Message: "City name is too long."}
	}
	days = ClampDays(days)

	fc, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (Forecast, error) {
		loc, err := s.forecast.Geocode(ctx, city)
		if err != nil {
			return Forecast{}, err
		}
		rows, err := s.forecast.Daily(ctx, loc.Latitude, loc.Longitude, days)
		if err != nil {
			return Forecast{}, err
		}
		return Forecast{Location: loc, Days: rows}, nil
	}, "weather", "forecast", strings.ToLower(city), strconv.Itoa(days))
	if errors.Is(err, ErrUnknownCity) {
		return Forecast{}, &httpx.FieldError{Field: "city", Message: "We could not find that city."}
	}
	return fc, err
}

// NormalizeCountry validates an ISO 3166-1 alpha-2 code.
func NormalizeCountry(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "", &httpx.FieldError{Field: "country", Message: "Please enter a two letter country code."}
	}
	return code, nil
}

// Holidays returns the public holidays of a country for a year, sorted by
// date. A zero year means the current one.
func (s *Service) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	code, err := NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if year < 1975 || year > 2075 {
		return nil, &httpx.FieldError{Field: "year", Message: "Year must be between 1975 and 2075."}
	}

	list, err := backend.Cached(ctx, s.cache, func(ctx context.Context) ([]Holiday, error) {
		return s.holidays.PublicHolidays(ctx, year, code)
	}, "weather", "holidays", code, strconv.Itoa(year))
	if errors.Is(err, httpx.ErrNotFound) {
		return nil, &httpx.FieldError{Field: "country", Message: "Holidays are not available for that country."}
	}
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	for i := range list {
		list[i].Today = list[i].Date.Equal(today)
		list[i].Upcoming = !list[i].Date.Before(today)
	}
	return list, nil
}

// Upcoming returns at most limit holidays from today onwards.
func (s *Service) Upcoming(ctx context.Context, country string, limit int) ([]Holiday, error) {
	list, err := s.Holidays(ctx, country, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Holiday, 0, limit)
	for _, h := range list {
		if h.Upcoming && len(out) < limit {
			out = append(out, h)
		}
	}
	return out, nil
}

// Warm prefetches forecasts for the given cities. Every city is attempted;
// the returned error joins the individual failures.
func (s *Service) Warm(ctx context.Context, cities []string) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, city := range cities {
		city := strings.TrimSpace(city)
		if city == "" {
			continue
		}
		g.Go(func() error {
			if _, err := s.Forecast(gctx, city, DefaultDays); err != nil {
				s.logger.Warn("weather warmup failed", slog.String("city", city), slog.Any("error", err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", city, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
