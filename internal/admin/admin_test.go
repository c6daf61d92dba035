package admin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/admin"
	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/rbac"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

type stubSource struct {
	created   []backend.SoftwareInput
	updated   map[string]backend.SoftwareInput
	deleted   []string
	profile   backend.AdminProfile
	createErr error
}

func (s *stubSource) AdminSoftwareList(ctx context.Context, search string, page int) (backend.Page[backend.Software], error) {
	return backend.Page[backend.Software]{
		Items: []backend.Software{{ID: "11", Slug: "vlc", Name: "VLC media player", Category: "multimedia"}},
		Total: 41, Page: page, PerPage: 20,
	}, nil
}

func (s *stubSource) AdminSoftwareGet(ctx context.Context, id string) (backend.Software, error) {
	if id != "11" {
		return backend.Software{}, httpx.ErrNotFound
	}
	return backend.Software{ID: "11", Slug: "vlc", Name: "VLC media player", OS: []string{"Windows", "Linux"}}, nil
}

func (s *stubSource) AdminSoftwareCreate(ctx context.Context, in backend.SoftwareInput) (backend.Software, error) {
	if s.createErr != nil {
		return backend.Software{}, s.createErr
	}
	s.created = append(s.created, in)
	return backend.Software{ID: "12", Slug: in.Slug, Name: in.Name}, nil
}

func (s *stubSource) AdminSoftwareUpdate(ctx context.Context, id string, in backend.SoftwareInput) (backend.Software, error) {
	if s.updated == nil {
		s.updated = map[string]backend.SoftwareInput{}
	}
	s.updated[id] = in
	return backend.Software{ID: id, Slug: in.Slug, Name: in.Name}, nil
}

func (s *stubSource) AdminSoftwareDelete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSource) AdminProfile(ctx context.Context) (backend.AdminProfile, error) {
	return s.profile, nil
}

func (s *stubSource) UpdateAdminProfile(ctx context.Context, in backend.AdminProfileInput) (backend.AdminProfile, error) {
	s.profile = backend.AdminProfile{ID: "1", Name: in.Name, Email: in.Email, Phone: in.Phone, Bio: in.Bio}
	return s.profile, nil
}

type stubAudit struct {
	entries []shared.AuditLog
	err     error
}

func (a *stubAudit) Record(ctx context.Context, log shared.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	log.At = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	a.entries = append(a.entries, log)
	return nil
}

func (a *stubAudit) Recent(ctx context.Context, limit int) ([]shared.AuditLog, error) {
	return a.entries, nil
}

type stubCache struct{ bumps int }

func (c *stubCache) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

type roles map[int64]string

func (r roles) RoleOf(ctx context.Context, id int64) (string, error) {
	role, ok := r[id]
	if !ok {
		return "", shared.ErrNotFound
	}
	return role, nil
}

type fixture struct {
	source *stubSource
	audit  *stubAudit
	cache  *stubCache
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine, err := view.NewEngine()
	require.NoError(t, err)

	f := &fixture{
		source: &stubSource{profile: backend.AdminProfile{ID: "1", Name: "Site Owner", Email: "owner@example.com"}},
		audit:  &stubAudit{},
		cache:  &stubCache{},
	}
	mw := rbac.Middleware{Service: rbac.NewService(roles{7: shared.RoleAdmin, 8: shared.RoleEditor})}
	svc := admin.NewService(f.source, f.audit, f.cache, nil)
	h := admin.NewHandler(nil, svc, engine, shared.NewCSRFManager("test-secret"), mw)

	r := chi.NewRouter()
	r.Route("/admin", h.MountRoutes)
	f.router = r
	return f
}

func (f *fixture) do(method, target, userID, role string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	sess := &shared.Session{ID: "sess-1"}
	if userID != "" {
		sess.SetUser(userID)
		sess.Set(shared.SessionRoleKey, role)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func validSoftware() url.Values {
	return url.Values{
		"name":         {"Inkscape"},
		"slug":         {"Inkscape"},
		"category":     {"graphics"},
		"version":      {"1.3"},
		"os":           {"Windows, macOS ,Linux,"},
		"download_url": {"https://inkscape.org/release/"},
	}
}

func TestCreateSoftwareAuditsAndBumpsCache(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/admin/software", "7", shared.RoleAdmin, validSoftware())

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/admin/software", rec.Header().Get("Location"))
	require.Len(t, f.source.created, 1)
	got := f.source.created[0]
	assert.Equal(t, "inkscape", got.Slug)
	assert.Equal(t, []string{"Windows", "macOS", "Linux"}, got.OS)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, int64(7), entry.ActorID)
	assert.Equal(t, "software.create", entry.Action)
	assert.Equal(t, "12", entry.EntityID)
	assert.Equal(t, 1, f.cache.bumps)
}

func TestCreateSoftwareValidation(t *testing.T) {
	f := newFixture(t)
	form := validSoftware()
	form.Set("name", "")
	form.Set("slug", "not a slug")
	form.Set("website", "nope")

	rec := f.do(http.MethodPost, "/admin/software", "7", shared.RoleAdmin, form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Name is required.")
	assert.Contains(t, body, "Slug may only contain lowercase letters, digits and dashes.")
	assert.Contains(t, body, "Website must be a valid URL.")
	assert.Empty(t, f.source.created)
	assert.Empty(t, f.audit.entries)
	assert.Zero(t, f.cache.bumps)
}

func TestCreateSoftwareBackendFieldError(t *testing.T) {
	f := newFixture(t)
	f.source.createErr = &httpx.FieldError{Field: "slug", Message: "This slug is already taken."}

	rec := f.do(http.MethodPost, "/admin/software", "7", shared.RoleAdmin, validSoftware())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "This slug is already taken.")
	assert.Empty(t, f.audit.entries)
}

func TestWriteSurvivesAuditFailure(t *testing.T) {
	f := newFixture(t)
	f.audit.err = errors.New("db down")

	rec := f.do(http.MethodPost, "/admin/software/11", "7", shared.RoleAdmin, validSoftware())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, f.source.updated, "11")
	assert.Equal(t, 1, f.cache.bumps)
}

func TestEditAndDeleteSoftware(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/admin/software/11/edit", "8", shared.RoleEditor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Windows, Linux"`)
	assert.Contains(t, rec.Body.String(), `action="/admin/software/11"`)

	rec = f.do(http.MethodGet, "/admin/software/99/edit", "8", shared.RoleEditor, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPost, "/admin/software/11/delete", "8", shared.RoleEditor, url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"11"}, f.source.deleted)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "software.delete", f.audit.entries[0].Action)
	assert.Equal(t, int64(8), f.audit.entries[0].ActorID)
}

func TestSoftwareListPaginates(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/admin/software?search=vlc&page=2", "7", shared.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "VLC media player")
	assert.Contains(t, body, "Page 2 of 3")
	assert.Contains(t, body, `href="/admin/software?search=vlc&amp;page=3"`)
}

func TestEditorCannotReadAuditOrFlush(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/admin/audit", "8", shared.RoleEditor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/admin/cache/flush", "8", shared.RoleEditor, url.Values{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, f.cache.bumps)

	rec = f.do(http.MethodPost, "/admin/profile", "8", shared.RoleEditor, url.Values{"name": {"x"}, "email": {"x@example.com"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminFlushAndAudit(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/admin/cache/flush", "7", shared.RoleAdmin, url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	assert.Equal(t, 1, f.cache.bumps)

	rec = f.do(http.MethodGet, "/admin/audit", "7", shared.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cache.flush")
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/admin/", "7", shared.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "41 entries")
	assert.Contains(t, body, "Flush page cache")

	rec = f.do(http.MethodGet, "/admin/", "8", shared.RoleEditor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Flush page cache")

	rec = f.do(http.MethodGet, "/admin/", "", "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/admin/profile", "7", shared.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner@example.com")

	rec = f.do(http.MethodPost, "/admin/profile", "7", shared.RoleAdmin, url.Values{"name": {"Owner"}, "email": {"nope"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid email address.")

	rec = f.do(http.MethodPost, "/admin/profile", "7", shared.RoleAdmin, url.Values{"name": {"Owner"}, "email": {"new@example.com"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "new@example.com", f.source.profile.Email)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "profile.update", f.audit.entries[0].Action)
	assert.Zero(t, f.cache.bumps)
}
