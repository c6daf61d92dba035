package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/rbac"
	"github.com/informreaders/portal/internal/shared"
)

type stubRoles map[int64]string

func (s stubRoles) RoleOf(ctx context.Context, id int64) (string, error) {
	role, ok := s[id]
	if !ok {
		return "", shared.ErrNotFound
	}
	return role, nil
}

func withUser(req *http.Request, id, role string) *http.Request {
	sess := &shared.Session{ID: "s1"}
	if id != "" {
		sess.SetUser(id)
		sess.Set(shared.SessionRoleKey, role)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func newRouter(roles rbac.RoleResolver) http.Handler {
	mw := rbac.Middleware{Service: rbac.NewService(roles)}
	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			p, _ := rbac.PrincipalFromContext(r.Context())
			_, _ = w.Write([]byte(p.Role))
		})
		r.With(mw.RequireAny(shared.PermSoftwareEdit)).Post("/software", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		r.With(mw.RequireAll(shared.PermAuditView, shared.PermSoftwareView)).Get("/audit", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(nil).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/admin/audit?x=1", nil), "", ""))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Faudit%3Fx%3D1", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	newRouter(nil).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPost, "/admin/software", nil), "", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEditorPermissions(t *testing.T) {
	router := newRouter(stubRoles{5: shared.RoleEditor})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPost, "/admin/software", nil), "5", shared.RoleEditor))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/admin/audit", nil), "5", shared.RoleEditor))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestResolverOverridesSessionRole(t *testing.T) {
	// demoted since login
	router := newRouter(stubRoles{9: shared.RoleEditor})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/admin/audit", nil), "9", shared.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/admin/", nil), "9", shared.RoleAdmin))
	assert.Equal(t, shared.RoleEditor, rec.Body.String())
}

func TestDeactivatedUserIsSignedOut(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodGet, "/admin/", nil), "3", shared.RoleAdmin)
	rec := httptest.NewRecorder()
	newRouter(stubRoles{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, shared.SessionFromContext(req.Context()).User())
}

func TestSessionRoleWithoutResolver(t *testing.T) {
	svc := rbac.NewService(nil)
	p, err := svc.Resolve(context.Background(), 1, " Admin ")
	require.NoError(t, err)
	assert.True(t, p.Can(shared.PermAuditView))

	_, err = svc.Resolve(context.Background(), 1, "guest")
	assert.True(t, errors.Is(err, rbac.ErrNoRole))
}

func TestGrants(t *testing.T) {
	grants := rbac.Grants()
	require.Len(t, grants, 2)
	assert.Equal(t, shared.RoleAdmin, grants[0].Role)
	assert.Contains(t, grants[0].Permissions, shared.PermProfileEdit)
	assert.NotContains(t, grants[1].Permissions, shared.PermAuditView)
}
