package account_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/account"
	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
	"github.com/informreaders/portal/jobs"
)

type fakeRegistrar struct {
	got backend.SignupRequest
	err error
}

func (f *fakeRegistrar) Signup(ctx context.Context, in backend.SignupRequest) (backend.User, error) {
	f.got = in
	if f.err != nil {
		return backend.User{}, f.err
	}
	return backend.User{ID: "u1", Name: in.Name, Email: in.Email}, nil
}

type fakeMailer struct {
	sent []jobs.SendEmailPayload
	err  error
}

func (f *fakeMailer) EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) error {
	f.sent = append(f.sent, payload)
	return f.err
}

func newRouter(t *testing.T, reg account.Registrar, mailer account.Mailer) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	h := account.NewHandler(nil, reg, mailer, "https://informreaders.com", templates, shared.NewCSRFManager("secret"))
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func signup(router http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"name":             {"Asha Rao"},
		"email":            {"asha@example.com"},
		"password":         {"correct horse"},
		"password_confirm": {"correct horse"},
	}
}

func TestSignupPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t, &fakeRegistrar{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signup", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password_confirm"`)
}

func TestSignupSuccessQueuesWelcomeEmail(t *testing.T) {
	reg := &fakeRegistrar{}
	mailer := &fakeMailer{}
	rec := signup(newRouter(t, reg, mailer), validForm())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "asha@example.com", reg.got.Email)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "asha@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "Hi Asha Rao,")
}

func TestSignupMailerFailureStillSucceeds(t *testing.T) {
	rec := signup(newRouter(t, &fakeRegistrar{}, &fakeMailer{err: errors.New("redis down")}), validForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	reg := &fakeRegistrar{}
	form := validForm()
	form.Set("email", "not-an-email")
	form.Set("password_confirm", "something else")
	rec := signup(newRouter(t, reg, nil), form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Contains(t, body, "Passwords do not match.")
	assert.NotContains(t, body, "correct horse")
	assert.Empty(t, reg.got.Email, "backend must not be called")
}

func TestSignupBackendFieldError(t *testing.T) {
	reg := &fakeRegistrar{err: fmt.Errorf("backend: signup: %w", &httpx.FieldError{Field: "email", Message: "Email is already registered."})}
	rec := signup(newRouter(t, reg, nil), validForm())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is already registered.")
}

func TestSignupBackendDown(t *testing.T) {
	reg := &fakeRegistrar{err: fmt.Errorf("backend: %w", httpx.ErrUpstream)}
	rec := signup(newRouter(t, reg, nil), validForm())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signup is not available right now.")
}

func TestSignupFlashesOnSession(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "portal_session", "secret", time.Hour, false)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	newRouter(t, &fakeRegistrar{}, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "success", flash.Kind)
}
