package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/informreaders/portal/internal/shared"
)

// Middleware guards admin routes. RequireAuth loads the principal; the
// Require helpers add permission checks on top and load it when needed.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireAuth resolves the signed-in admin into the request context.
// Anonymous GETs are sent to the login page; other methods get 401.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		userID, ok := m.sessionUser(sess)
		if !ok {
			signIn(w, r)
			return
		}

		p, err := m.Service.Resolve(r.Context(), userID, sess.Get(shared.SessionRoleKey))
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, ErrNoRole) {
			// The account is gone or lost its role: forget it.
			sess.SetUser("")
			sess.Delete(shared.SessionRoleKey)
			signIn(w, r)
			return
		}
		if err != nil {
			m.log().Error("resolve admin principal", slog.Int64("user_id", userID), slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAny lets the request through when the admin holds one of perms.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	want := permissionList(perms)
	return m.gate(func(p Principal) bool {
		return len(want) == 0 || slices.ContainsFunc(want, p.Can)
	})
}

// RequireAll lets the request through when the admin holds every one of perms.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	want := permissionList(perms)
	return m.gate(func(p Principal) bool {
		for _, perm := range want {
			if !p.Can(perm) {
				return false
			}
		}
		return true
	})
}

func (m Middleware) gate(allowed func(Principal) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		var check http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			if !allowed(p) {
				m.log().Warn("admin permission denied",
					slog.Int64("user_id", p.UserID), slog.String("role", p.Role), slog.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
		withAuth := m.RequireAuth(check)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, resolved := PrincipalFromContext(r.Context()); resolved {
				check.ServeHTTP(w, r)
				return
			}
			withAuth.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) sessionUser(sess *shared.Session) (int64, bool) {
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		m.log().Error("session holds malformed admin id", slog.String("value", raw))
		return 0, false
	}
	return id, true
}

func (m Middleware) log() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func signIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/admin/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
}

// permissionList lowercases, trims and dedupes perms, dropping blanks.
func permissionList(perms []string) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
