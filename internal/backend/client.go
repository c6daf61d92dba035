// Package backend is the HTTP client for the InformReaders REST API that owns
// every piece of portal content. Pages consume it as opaque JSON-in/JSON-out.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/informreaders/portal/internal/platform/httpx"
)

const maxErrorBody = 64 << 10

// Observer receives one call per outgoing request. status is zero when no
// response arrived.
type Observer interface {
	ObserveUpstream(target string, status int, elapsed time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	AdminToken string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Observer   Observer
}

// Client wraps interactions with the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	adminToken string
	logger     *slog.Logger
	observer   Observer
	now        func() time.Time
}

// NewClient constructs a new client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		adminToken: opts.AdminToken,
		logger:     logger.With(slog.String("component", "backend")),
		observer:   opts.Observer,
		now:        time.Now,
	}
}

// envelope is the response wrapper used by every backend endpoint.
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	admin  bool
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("backend: encode %s: %w", req.path, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("backend: build %s: %w", req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.admin {
		token, err := c.adminBearer()
		if err != nil {
			return err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.observe(resp, time.Since(start))
	if err != nil {
		c.logger.Warn("backend request failed", slog.String("method", req.method), slog.String("path", req.path), slog.Any("error", err))
		return fmt.Errorf("backend: %s %s: %w: %v", req.method, req.path, httpx.ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.logger.Debug("backend request", slog.String("method", req.method), slog.String("path", req.path), slog.Int("status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 400 {
		return c.statusError(req, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("backend: decode %s: %w", req.path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("backend: %s: %w", req.path, httpx.ErrNotFound)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("backend: decode %s data: %w", req.path, err)
	}
	return nil
}

func (c *Client) observe(resp *http.Response, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.observer.ObserveUpstream("backend", status, elapsed)
}

func (c *Client) statusError(req request, resp *http.Response) error {
	var env envelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &env)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("backend: %s: %w", req.path, httpx.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("backend: %s: %w", req.path, httpx.ErrUnauthorized)
	case http.StatusConflict:
		return fmt.Errorf("backend: %s: %w", req.path, fieldError(env, httpx.ErrDuplicate.Error()))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("backend: %s: %w", req.path, fieldError(env, httpx.ErrValidation.Error()))
	default:
		c.logger.Error("backend error response", slog.String("path", req.path), slog.Int("status", resp.StatusCode), slog.String("message", env.Message))
		return fmt.Errorf("backend: %s returned status %d: %w", req.path, resp.StatusCode, httpx.ErrUpstream)
	}
}

// fieldError turns the backend error envelope into a FieldError. The first
// field error (by field name) wins when several are reported.
func fieldError(env envelope, fallback string) *httpx.FieldError {
	if len(env.Errors) > 0 {
		fields := make([]string, 0, len(env.Errors))
		for f := range env.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return &httpx.FieldError{Field: fields[0], Message: env.Errors[fields[0]]}
	}
	msg := strings.TrimSpace(env.Message)
	if msg == "" {
		msg = fallback
	}
	return &httpx.FieldError{Message: msg}
}

// IsNotFound reports whether err means the backend has no such record.
func IsNotFound(err error) bool {
	return errors.Is(err, httpx.ErrNotFound)
}
