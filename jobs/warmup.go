package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/informreaders/portal/internal/jobs"
)

// Warmer prefetches forecasts. weather.Service satisfies it.
type Warmer interface {
	Warm(ctx context.Context, cities []string) error
}

// WeatherWarmupJob handles TaskTypeWeatherWarmup.
type WeatherWarmupJob struct {
	Warmer  Warmer
	Cities  []string
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle warms the forecast cache. A partial failure fails the task so the
// failure counter and alert see it.
func (j *WeatherWarmupJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	var payload WeatherWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TaskTypeWeatherWarmup, err, asynq.SkipRetry)
		}
	}
	cities := payload.Cities
	if len(cities) == 0 {
		cities = j.Cities
	}
	if len(cities) == 0 {
		logger(j.Logger).Info("weather warmup skipped: no cities configured")
		return nil
	}

	tracker := j.Metrics.Track(TaskTypeWeatherWarmup)
	defer func() { err = tracker.End(err) }()

	werr := j.Warmer.Warm(ctx, cities)
	failed := failedCities(werr)
	j.Metrics.CitiesWarmed(len(cities)-failed, failed)
	if werr != nil {
		return werr
	}
	logger(j.Logger).Info("weather warmup done", slog.Int("cities", len(cities)))
	return nil
}

// failedCities counts the per-city errors joined by weather.Service.Warm.
func failedCities(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}

// Bumper invalidates the response cache. backend.Cache satisfies it.
type Bumper interface {
	Bump(ctx context.Context) error
}

// CacheBumpJob handles TaskTypeCacheBump.
type CacheBumpJob struct {
	Cache   Bumper
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle bumps the cache version.
func (j *CacheBumpJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	var payload CacheBumpPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TaskTypeCacheBump, err, asynq.SkipRetry)
		}
	}
	tracker := j.Metrics.Track(TaskTypeCacheBump)
	defer func() { err = tracker.End(err) }()

	if err := j.Cache.Bump(ctx); err != nil {
		return err
	}
	logger(j.Logger).Info("cache bumped", slog.String("reason", payload.Reason))
	return nil
}
