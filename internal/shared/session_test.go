package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "portal_session", "secret", time.Hour, false), mr
}

func TestAnonymousEmptySessionIsNotPersisted(t *testing.T) {
	sm, mr := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, req, sess))
	assert.Empty(t, rec.Result().Cookies())
	assert.Empty(t, mr.Keys())
}

func TestSessionRoundTripWithFlash(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.Set("greeting", "hello")
	sess.AddFlash(FlashMessage{Kind: "success", Message: "Account created"})

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sm.CookieValue(sess.ID), cookies[0].Value)
	assert.Positive(t, mr.TTL("portal:session:"+sess.ID))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "hello", loaded.Get("greeting"))

	flash := loaded.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Account created", flash.Message)
	assert.Nil(t, loaded.PopFlash())
}

func TestUnknownCookieGetsFreshID(t *testing.T) {
	sm, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "attacker-chosen"})
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "attacker-chosen", sess.ID)
}

func TestForgedSignatureIsIgnored(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := sm.Load(ctx, req)
	sess.SetUser("1")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID + ".not-the-mac"})
	loaded, err := sm.Load(ctx, forged)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, loaded.ID)
	assert.Empty(t, loaded.User())
}

func TestRenewDropsPreviousKey(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := sm.Load(ctx, req)
	sess.Set("k", "v")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))
	oldID := sess.ID

	next := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	next.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sm.CookieValue(oldID)})
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	sm.Renew(loaded)
	loaded.SetUser("7")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), next, loaded))

	assert.NotEqual(t, oldID, loaded.ID)
	assert.False(t, mr.Exists("portal:session:"+oldID))
	assert.True(t, mr.Exists("portal:session:"+loaded.ID))
}

func TestDestroyExpiresCookie(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, _ := sm.Load(ctx, req)
	sess.SetUser("1")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), req, sess))

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
	assert.False(t, mr.Exists("portal:session:"+sess.ID))
}

func TestCSRFTokenLifecycle(t *testing.T) {
	sm, _ := newTestManager(t)
	csrf := NewCSRFManager("csrf-secret")
	ctx := context.Background()
	sess, _ := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))

	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	again, _ := csrf.EnsureToken(ctx, sess)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)

	sm.Renew(sess)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, token), ErrCSRFTokenMismatch, "tokens follow the session id")
	rotated, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.NotEqual(t, token, rotated)
	assert.NoError(t, csrf.VerifyToken(ctx, sess, rotated))

	form := url.Values{CSRFFormField: {token}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, token, TokenFromRequest(r))

	h := httptest.NewRequest(http.MethodPost, "/", nil)
	h.Header.Set(CSRFHeader, token)
	assert.Equal(t, token, TokenFromRequest(h))
}

func TestPagination(t *testing.T) {
	p := NewPagination(0, 0, 45)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	last := NewPagination(3, 20, 45)
	assert.False(t, last.HasNext())
	assert.Equal(t, 2, last.PrevPage())

	assert.Equal(t, 4, PageFromQuery(url.Values{"page": {"4"}}))
	assert.Equal(t, 1, PageFromQuery(url.Values{"page": {"-2"}}))
	assert.Equal(t, 1, PageFromQuery(url.Values{}))

	linked := NewPagination(2, 20, 45).WithBase("/coupons", url.Values{"store": {"amazon"}, "page": {"2"}})
	assert.Equal(t, "/coupons?store=amazon", linked.URL(1))
	assert.Equal(t, "/coupons?store=amazon&page=3", linked.URL(linked.NextPage()))
	bare := NewPagination(1, 20, 45).WithBase("/software", nil)
	assert.Equal(t, "/software?page=2", bare.URL(2))
}

func TestRolePermissions(t *testing.T) {
	assert.Contains(t, RolePermissions(RoleAdmin), PermAuditView)
	assert.NotContains(t, RolePermissions(RoleEditor), PermAuditView)
	assert.Nil(t, RolePermissions("visitor"))
}

func TestNormalizeSlug(t *testing.T) {
	got, ok := NormalizeSlug(" State-Bank_1 ")
	assert.True(t, ok)
	assert.Equal(t, "state-bank_1", got)

	for _, bad := range []string{"", "../etc", "a b", "x/y", strings.Repeat("a", 161)} {
		_, ok := NormalizeSlug(bad)
		assert.False(t, ok, bad)
	}
}
