package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

const (
	loginTemplate = "pages/admin_login.html"
	loginTitle    = "Sign in"

	// loginAttempts per email and client address per window.
	loginAttempts = 5
	loginWindow   = time.Minute
)

// Handler serves the back-office sign in and sign out endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	pages    *view.Renderer
	sessions *shared.SessionManager
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		pages:    view.NewRenderer(logger, templates, csrf),
		sessions: sessions,
		validate: shared.NewValidator(),
	}
}

// MountRoutes registers /login and /logout. Login posts are throttled per
// email and client address.
func (h *Handler) MountRoutes(r chi.Router) {
	throttle := httprate.Limit(loginAttempts, loginWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP, loginEmailKey),
		httprate.WithLimitHandler(h.throttled),
	)
	r.Get("/login", h.showLogin)
	r.With(throttle).Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type loginPage struct {
	Form   loginForm
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Next: safeNext(r.URL.Query().Get("next"))}
	h.pages.Form(w, r, http.StatusOK, loginTemplate, loginTitle, loginPage{Form: form})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Next:     safeNext(r.PostFormValue("next")),
	}
	if errs := shared.ValidationMessages(h.validate.Struct(form)); len(errs) > 0 {
		h.rejectLogin(w, r, http.StatusBadRequest, form, errs)
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if errors.Is(err, shared.ErrInvalidCredentials) {
		h.logger.Info("admin sign in rejected", slog.String("email", form.Email))
		h.rejectLogin(w, r, http.StatusBadRequest, form, map[string]string{"general": "Invalid email or password."})
		return
	}
	if err != nil {
		h.logger.Error("authenticate admin", slog.Any("error", err))
		h.rejectLogin(w, r, http.StatusBadRequest, form, map[string]string{"general": "Sign in is not available right now."})
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("login without a session")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.sessions.Renew(sess)
	sess.SetUser(strconv.FormatInt(user.ID, 10))
	sess.Set(shared.SessionRoleKey, user.Role)
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back, " + user.DisplayName() + "."})

	expires := time.Now().Add(h.sessions.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expires, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("record admin session", slog.Any("error", err))
	}
	h.logger.Info("admin signed in", slog.Int64("user_id", user.ID), slog.String("role", user.Role))
	http.Redirect(w, r, form.Next, http.StatusSeeOther)
}

// rejectLogin re-renders the form without echoing the password.
func (h *Handler) rejectLogin(w http.ResponseWriter, r *http.Request, status int, form loginForm, errs map[string]string) {
	form.Password = ""
	h.pages.Form(w, r, status, loginTemplate, loginTitle, loginPage{Form: form, Errors: errs})
}

func (h *Handler) throttled(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Email: strings.TrimSpace(r.PostFormValue("email")), Next: safeNext(r.PostFormValue("next"))}
	h.rejectLogin(w, r, http.StatusTooManyRequests, form, map[string]string{
		"general": "Too many sign in attempts. Please wait a minute and try again.",
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove admin session", slog.Any("error", err))
		}
		h.sessions.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loginEmailKey(r *http.Request) (string, error) {
	return strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))), nil
}

// safeNext keeps post-login redirects inside the back-office.
func safeNext(next string) string {
	if next == "/admin" {
		return next
	}
	if strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "/admin/login") && !strings.Contains(next, "//") {
		return next
	}
	return "/admin"
}
