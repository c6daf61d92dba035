// Package account handles visitor signup.
package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
	"github.com/informreaders/portal/jobs"
)

// Registrar creates reader accounts. backend.Client satisfies it.
type Registrar interface {
	Signup(ctx context.Context, in backend.SignupRequest) (backend.User, error)
}

// Mailer queues transactional email. jobs.Client satisfies it.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) error
}

// Handler serves /signup.
type Handler struct {
	logger    *slog.Logger
	registrar Registrar
	mailer    Mailer
	baseURL   string
	pages     *view.Renderer
	validator *validator.Validate
}

// NewHandler builds a Handler. mailer may be nil, in which case no welcome
// email is sent.
func NewHandler(logger *slog.Logger, registrar Registrar, mailer Mailer, baseURL string, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		registrar: registrar,
		mailer:    mailer,
		baseURL:   baseURL,
		pages:     view.NewRenderer(logger, templates, csrf),
		validator: shared.NewValidator(),
	}
}

// MountRoutes registers the signup form.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/signup", h.showSignup)
	r.Post("/signup", h.handleSignup)
}

type signupForm struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,min=8,max=72"`
	Confirm  string `form:"password_confirm" validate:"eqfield=Password"`
}

type signupPageData struct {
	Form   signupForm
	Errors map[string]string
}

func (h *Handler) showSignup(w http.ResponseWriter, r *http.Request) {
	h.pages.Form(w, r, http.StatusOK, "pages/signup.html", "Create your account", signupPageData{})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := signupForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("password_confirm"),
	}
	if errs := shared.ValidationMessages(h.validator.Struct(form)); len(errs) > 0 {
		h.rerender(w, r, http.StatusBadRequest, form, errs)
		return
	}

	user, err := h.registrar.Signup(r.Context(), backend.SignupRequest{Name: form.Name, Email: form.Email, Password: form.Password})
	var fe *httpx.FieldError
	switch {
	case errors.As(err, &fe):
		field := fe.Field
		if field == "" {
			field = "general"
		}
		h.rerender(w, r, httpx.StatusFor(err), form, map[string]string{field: fe.Message})
		return
	case err != nil:
		h.logger.Error("signup", slog.Any("error", err))
		h.rerender(w, r, httpx.StatusFor(err), form, map[string]string{"general": "Signup is not available right now. Please try again later."})
		return
	}

	if h.mailer != nil {
		name := user.Name
		if name == "" {
			name = form.Name
		}
		if err := h.mailer.EnqueueSendEmail(r.Context(), jobs.WelcomeEmail(name, form.Email, h.baseURL)); err != nil {
			h.logger.Warn("enqueue welcome email", slog.String("email", form.Email), slog.Any("error", err))
		}
	}
	h.pages.RedirectWithFlash(w, r, "/", "success", "Welcome to InformReaders! Your account is ready.")
}

func (h *Handler) rerender(w http.ResponseWriter, r *http.Request, status int, form signupForm, errs map[string]string) {
	form.Password, form.Confirm = "", ""
	h.pages.Form(w, r, status, "pages/signup.html", "Create your account", signupPageData{Form: form, Errors: errs})
}
