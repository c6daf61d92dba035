package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
)

type getter struct {
	client   *http.Client
	observer backend.Observer
	target   string
}

func newGetter(client *http.Client, observer backend.Observer, target string) getter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return getter{client: client, observer: observer, target: target}
}

// getJSON decodes a 200 response into out. A 204 leaves out untouched.
func (g getter) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", g.target, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if g.observer != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		g.observer.ObserveUpstream(g.target, status, time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %v", g.target, httpx.ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", g.target, httpx.ErrNotFound)
	case resp.StatusCode >= 300:
		return fmt.Errorf("%s: status %d: %w", g.target, resp.StatusCode, httpx.ErrUpstream)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", g.target, err)
	}
	return nil
}

// ForecastClient talks to the Open-Meteo geocoding and forecast APIs.
type ForecastClient struct {
	geocodingURL string
	forecastURL  string
	http         getter
}

// NewForecastClient builds a ForecastClient. httpClient and observer may be nil.
func NewForecastClient(geocodingURL, forecastURL string, httpClient *http.Client, observer backend.Observer) *ForecastClient {
	return &ForecastClient{
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		http:         newGetter(httpClient, observer, "open-meteo"),
	}
}

// Geocode resolves a city name to its best match.
func (c *ForecastClient) Geocode(ctx context.Context, city string) (Location, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var payload struct {
		Results []Location `json:"results"`
	}
	if err := c.http.getJSON(ctx, c.geocodingURL+"?"+q.Encode(), &payload); err != nil {
		return Location{}, err
	}
	if len(payload.Results) == 0 {
		return Location{}, fmt.Errorf("%w: %s", ErrUnknownCity, city)
	}
	return payload.Results[0], nil
}

type dailyPayload struct {
	Daily struct {
		Time          []string  `json:"time"`
		WeatherCode   []int     `json:"weather_code"`
		TempMax       []float64 `json:"temperature_2m_max"`
		TempMin       []float64 `json:"temperature_2m_min"`
		Precipitation []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Daily fetches a daily forecast for the coordinates.
func (c *ForecastClient) Daily(ctx context.Context, lat, lon float64, days int) ([]Day, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum")
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(days))

	var payload dailyPayload
	if err := c.http.getJSON(ctx, c.forecastURL+"?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	d := payload.Daily
	n := len(d.Time)
	if len(d.WeatherCode) < n || len(d.TempMax) < n || len(d.TempMin) < n || len(d.Precipitation) < n {
		return nil, fmt.Errorf("open-meteo: daily series have mismatched lengths: %w", httpx.ErrUpstream)
	}
	out := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", d.Time[i])
		if err != nil {
			return nil, fmt.Errorf("open-meteo: date %q: %w", d.Time[i], err)
		}
		out = append(out, Day{
			Date:            date,
			Code:            d.WeatherCode[i],
			Description:     Describe(d.WeatherCode[i]),
			MinC:            d.TempMin[i],
			MaxC:            d.TempMax[i],
			PrecipitationMM: d.Precipitation[i],
		})
	}
	return out, nil
}

// HolidayClient talks to the Nager.Date public holiday API.
type HolidayClient struct {
	baseURL string
	http    getter
}

// NewHolidayClient builds a HolidayClient. httpClient and observer may be nil.
func NewHolidayClient(baseURL string, httpClient *http.Client, observer backend.Observer) *HolidayClient {
	return &HolidayClient{baseURL: strings.TrimRight(baseURL, "/"), http: newGetter(httpClient, observer, "nager-date")}
}

type nagerHoliday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}

// PublicHolidays lists the public holidays of a country in a year.
func (c *HolidayClient) PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	endpoint := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, url.PathEscape(countryCode))
	var payload []nagerHoliday
	if err := c.http.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	out := make([]Holiday, 0, len(payload))
	for _, h := range payload {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			return nil, fmt.Errorf("nager-date: date %q: %w", h.Date, err)
		}
		out = append(out, Holiday{
			Date:        date,
			LocalName:   h.LocalName,
			Name:        h.Name,
			CountryCode: h.CountryCode,
			Global:      h.Global,
			Types:       h.Types,
		})
	}
	return out, nil
}
