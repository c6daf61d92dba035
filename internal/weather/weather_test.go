package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

const geocodeBody = `{"results":[{"name":"London","country":"United Kingdom","country_code":"GB","latitude":51.5085,"longitude":-0.1257,"timezone":"Europe/London"}]}`

const forecastBody = `{"daily":{
	"time":["2026-05-01","2026-05-02"],
	"weather_code":[0,61],
	"temperature_2m_max":[18.4,15.1],
	"temperature_2m_min":[9.2,8.7],
	"precipitation_sum":[0,4.2]}}`

const holidaysBody = `[
	{"date":"2026-12-25","localName":"Christmas Day","name":"Christmas Day","countryCode":"GB","global":true,"types":["Public"]},
	{"date":"2026-01-01","localName":"New Year's Day","name":"New Year's Day","countryCode":"GB","global":true,"types":["Public"]},
	{"date":"2026-05-01","localName":"Early May Bank Holiday","name":"Early May Bank Holiday","countryCode":"GB","global":true,"types":["Bank"]}
]`

type fakeAPIs struct {
	server        *httptest.Server
	geocodeHits   atomic.Int32
	forecastHits  atomic.Int32
	holidayStatus int
	lastForecast  atomic.Value
}

func newFakeAPIs(t *testing.T) *fakeAPIs {
	t.Helper()
	f := &fakeAPIs{holidayStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if strings.EqualFold(r.URL.Query().Get("name"), "atlantis") {
			_, _ = w.Write([]byte(`{"generationtime_ms":0.4}`))
			return
		}
		_, _ = w.Write([]byte(geocodeBody))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		f.forecastHits.Add(1)
		f.lastForecast.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	})
	mux.HandleFunc("/api/v3/PublicHolidays/", func(w http.ResponseWriter, r *http.Request) {
		if f.holidayStatus != http.StatusOK {
			w.WriteHeader(f.holidayStatus)
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/GB") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(holidaysBody))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPIs) service(cache *backend.Cache) *Service {
	svc := NewService(
		NewForecastClient(f.server.URL+"/v1/search", f.server.URL+"/v1/forecast", f.server.Client(), nil),
		NewHolidayClient(f.server.URL+"/api/v3/", f.server.Client(), nil),
		cache, nil,
	)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestForecast(t *testing.T) {
	apis := newFakeAPIs(t)
	svc := apis.service(nil)

	fc, err := svc.Forecast(context.Background(), "  London  ", 2)
	require.NoError(t, err)
	assert.Equal(t, "London", fc.Location.Name)
	require.Len(t, fc.Days, 2)
	assert.Equal(t, "Clear sky", fc.Days[0].Description)
	assert.Equal(t, 4.2, fc.Days[1].PrecipitationMM)
	assert.Equal(t, 9.2, fc.Days[0].MinC)

	query, _ := apis.lastForecast.Load().(string)
	assert.Contains(t, query, "forecast_days=2")
	assert.Contains(t, query, "timezone=auto")
}

func TestForecastValidation(t *testing.T) {
	svc := newFakeAPIs(t).service(nil)

	_, err := svc.Forecast(context.Background(), "   ", 3)
	var fe *httpx.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "city", fe.Field)

	_, err = svc.Forecast(context.Background(), strings.Repeat("x", 81), 3)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Forecast(context.Background(), "Atlantis", 3)
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "We could not find that city.", fe.Message)
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, DefaultDays, ClampDays(0))
	assert.Equal(t, DefaultDays, ClampDays(-3))
	assert.Equal(t, 3, ClampDays(3))
	assert.Equal(t, MaxDays, ClampDays(40))
}

func TestForecastIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	apis := newFakeAPIs(t)
	svc := apis.service(backend.NewCache(client, time.Minute, nil))

	for i := 0; i < 3; i++ {
		_, err := svc.Forecast(context.Background(), "London", 7)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, apis.geocodeHits.Load())
	assert.EqualValues(t, 1, apis.forecastHits.Load())

	// lookups are case-insensitive
	_, err := svc.Forecast(context.Background(), "LONDON", 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, apis.geocodeHits.Load())
}

func TestHolidaysSortedAndFlagged(t *testing.T) {
	svc := newFakeAPIs(t).service(nil)

	list, err := svc.Holidays(context.Background(), "gb", 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "New Year's Day", list[0].Name)
	assert.False(t, list[0].Upcoming)
	assert.True(t, list[1].Today)
	assert.True(t, list[1].Upcoming)
	assert.True(t, list[2].Upcoming)
	assert.False(t, list[2].Today)

	upcoming, err := svc.Upcoming(context.Background(), "GB", 1)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Early May Bank Holiday", upcoming[0].Name)
}

func TestHolidaysValidation(t *testing.T) {
	svc := newFakeAPIs(t).service(nil)

	_, err := svc.Holidays(context.Background(), "GBR", 2026)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Holidays(context.Background(), "GB", 1900)
	var fe *httpx.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "year", fe.Field)

	_, err = svc.Holidays(context.Background(), "ZZ", 2026)
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "country", fe.Field)
}

func TestHolidaysUpstreamFailure(t *testing.T) {
	apis := newFakeAPIs(t)
	apis.holidayStatus = http.StatusServiceUnavailable
	_, err := apis.service(nil).Holidays(context.Background(), "GB", 2026)
	assert.ErrorIs(t, err, httpx.ErrUpstream)
}

type flakyForecaster struct{ failing string }

func (f flakyForecaster) Geocode(ctx context.Context, city string) (Location, error) {
	if city == f.failing {
		return Location{}, fmt.Errorf("open-meteo: %w", httpx.ErrUpstream)
	}
	return Location{Name: city}, nil
}

func (f flakyForecaster) Daily(ctx context.Context, lat, lon float64, days int) ([]Day, error) {
	return []Day{{Description: "Clear sky"}}, nil
}

func TestWarmJoinsFailures(t *testing.T) {
	svc := NewService(flakyForecaster{failing: "Paris"}, nil, nil, nil)
	err := svc.Warm(context.Background(), []string{"London", " ", "Paris", "Tokyo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrUpstream)
	assert.Contains(t, err.Error(), "Paris")
	assert.NotContains(t, err.Error(), "Tokyo")

	assert.NoError(t, svc.Warm(context.Background(), []string{"London"}))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Clear sky", Describe(0))
	assert.Equal(t, "Unknown", Describe(1234))
}

func newRouter(t *testing.T, svc *Service) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	r := chi.NewRouter()
	NewHandler(nil, svc, templates, shared.NewCSRFManager("secret")).MountRoutes(r)
	return r
}

func TestWeatherPage(t *testing.T) {
	router := newRouter(t, newFakeAPIs(t).service(nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/weather?city=London&days=2&country=GB", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "United Kingdom")
	assert.Contains(t, body, "Clear sky")
	assert.Contains(t, body, "Early May Bank Holiday")
	assert.NotContains(t, body, "New Year")
}

func TestWeatherPageHolidayFailureIsNotFatal(t *testing.T) {
	apis := newFakeAPIs(t)
	apis.holidayStatus = http.StatusBadGateway
	router := newRouter(t, apis.service(nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/weather?city=London&country=GB", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Clear sky")
	assert.Contains(t, rec.Body.String(), "Failed to load data")
}

func TestWeatherPageUnknownCity(t *testing.T) {
	router := newRouter(t, newFakeAPIs(t).service(nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/weather?city=Atlantis", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "We could not find that city.")
}

func TestHolidaysPage(t *testing.T) {
	router := newRouter(t, newFakeAPIs(t).service(nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/holidays?country=gb&year=2026", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Public holidays 2026")
	assert.Contains(t, body, "Christmas Day")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/holidays?country=usa", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
