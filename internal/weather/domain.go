// Package weather serves daily forecasts from Open-Meteo and public holidays
// from Nager.Date.
package weather

import (
	"errors"
	"time"
)

// ErrUnknownCity is returned when geocoding finds no match.
var ErrUnknownCity = errors.New("weather: unknown city")

// Location is a geocoded place.
type Location struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
}

// Day is one row of a daily forecast.
type Day struct {
	Date            time.Time `json:"date"`
	Code            int       `json:"code"`
	Description     string    `json:"description"`
	MinC            float64   `json:"min_c"`
	MaxC            float64   `json:"max_c"`
	PrecipitationMM float64   `json:"precipitation_mm"`
}

// Forecast is a location with its daily rows.
type Forecast struct {
	Location Location `json:"location"`
	Days     []Day    `json:"days"`
}

// Holiday is a public holiday.
type Holiday struct {
	Date        time.Time `json:"date"`
	LocalName   string    `json:"local_name"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
	Global      bool      `json:"global"`
	Types       []string  `json:"types"`
	Upcoming    bool      `json:"-"`
	Today       bool      `json:"-"`
}
