// Package jobs defines the asynq tasks run by cmd/worker.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail sends a transactional email over SMTP.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeWeatherWarmup prefetches forecasts for the configured cities.
	TaskTypeWeatherWarmup = "weather:warmup"
	// TaskTypeCacheBump invalidates every cached backend response.
	TaskTypeCacheBump = "cache:bump"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// WeatherWarmupPayload optionally overrides the configured city list.
type WeatherWarmupPayload struct {
	Cities []string `json:"cities,omitempty"`
}

// CacheBumpPayload records why the cache was invalidated.
type CacheBumpPayload struct {
	Reason string `json:"reason,omitempty"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.To) == "" {
		return nil, errors.New("send email: recipient required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data, asynq.MaxRetry(5)), nil
}

// NewWeatherWarmupTask builds a warmup task. Nil cities means the worker's list.
func NewWeatherWarmupTask(cities []string) (*asynq.Task, error) {
	data, err := json.Marshal(WeatherWarmupPayload{Cities: cities})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWeatherWarmup, data, asynq.MaxRetry(1)), nil
}

// NewCacheBumpTask builds a cache invalidation task.
func NewCacheBumpTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(CacheBumpPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeCacheBump, data, asynq.MaxRetry(3)), nil
}

// WelcomeEmail is the message sent after a visitor signs up.
func WelcomeEmail(name, email, baseURL string) SendEmailPayload {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	b.WriteString("Thanks for signing up to InformReaders.\n")
	b.WriteString("Bank codes, postal codes, converters and calculators are waiting for you at ")
	b.WriteString(strings.TrimRight(baseURL, "/") + "/\n\n")
	b.WriteString("The InformReaders team\n")
	return SendEmailPayload{To: email, Subject: "Welcome to InformReaders", Body: b.String()}
}
