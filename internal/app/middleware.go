package app

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/informreaders/portal/internal/observability"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRatePerMinute  = 120
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
}

// MiddlewareStack returns the portal middleware chain in installation order.
// Pages get a Redis session and CSRF checks; /api stays stateless.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	s := stack{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	timeout := defaultRequestTimeout
	limit := defaultRatePerMinute
	production := false
	if c := cfg.Config; c != nil {
		if c.AppRequestTimeout > 0 {
			timeout = c.AppRequestTimeout
		}
		if c.RateLimitPerMin > 0 {
			limit = c.RateLimitPerMin
		}
		production = c.IsProduction()
	}
	s.headers = secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' https: data:; style-src 'self'; script-src 'self'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	})

	chain := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		s.sessions,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		s.secureHeaders,
		middleware.Compress(5),
		httprate.Limit(limit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(s.tooManyRequests),
		),
		s.csrf,
	}
	if cfg.Metrics != nil {
		chain = append(chain, cfg.Metrics.Middleware)
	}
	return chain
}

type stack struct {
	cfg     MiddlewareConfig
	logger  *slog.Logger
	headers *secure.Secure
}

// isAPIRequest reports whether the request targets the stateless JSON API.
func isAPIRequest(r *http.Request) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}

func (s stack) sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPIRequest(r) || s.cfg.SessionManager == nil {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := s.cfg.SessionManager.Load(r.Context(), r)
		if err != nil {
			s.logger.Error("load session", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		r = r.WithContext(shared.ContextWithSession(r.Context(), sess))
		cw := &committingWriter{ResponseWriter: w, commit: func() {
			if err := s.cfg.SessionManager.Commit(context.WithoutCancel(r.Context()), w, r, sess); err != nil {
				s.logger.Error("commit session", slog.Any("error", err))
			}
		}}
		next.ServeHTTP(cw, r)
		cw.flush()
	})
}

func (s stack) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet, r.Method == http.MethodHead, r.Method == http.MethodOptions:
		case isAPIRequest(r):
		default:
			sess := shared.SessionFromContext(r.Context())
			if err := s.cfg.CSRFManager.VerifyToken(r.Context(), sess, shared.TokenFromRequest(r)); err != nil {
				s.logger.Warn("csrf rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
				http.Error(w, "The form has expired. Please reload the page and try again.", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s stack) secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.headers.Process(w, r); err != nil {
			s.logger.Warn("secure headers blocked request", slog.Any("error", err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s stack) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		httpx.Problem(w, http.StatusTooManyRequests, "", "Rate limit exceeded, retry in a minute.")
		return
	}
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

// committingWriter saves the session just before the first header write, so
// its Set-Cookie still reaches the client.
type committingWriter struct {
	http.ResponseWriter
	commit func()
	once   sync.Once
}

func (w *committingWriter) flush() { w.once.Do(w.commit) }

func (w *committingWriter) WriteHeader(status int) {
	w.flush()
	w.ResponseWriter.WriteHeader(status)
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
