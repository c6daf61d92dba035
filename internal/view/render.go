package view

import (
	"log/slog"
	"net/http"

	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// Renderer fills the session-derived TemplateData fields for handlers.
type Renderer struct {
	logger    *slog.Logger
	templates *Engine
	csrf      *shared.CSRFManager
}

// NewRenderer builds a Renderer.
func NewRenderer(logger *slog.Logger, templates *Engine, csrf *shared.CSRFManager) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger, templates: templates, csrf: csrf}
}

// Page renders a read-only page. A CSRF token is only minted for signed-in
// sessions so anonymous readers do not get a session persisted.
func (p *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, tmpl, title string, data any) {
	p.render(w, r, status, tmpl, title, data, false)
}

// Form renders a page that posts back and therefore needs a CSRF token.
func (p *Renderer) Form(w http.ResponseWriter, r *http.Request, status int, tmpl, title string, data any) {
	p.render(w, r, status, tmpl, title, data, true)
}

// Error renders the error page for err. Not-found and validation problems
// are expected; anything else is logged.
func (p *Renderer) Error(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := httpx.StatusFor(err)
	if status >= http.StatusInternalServerError {
		p.logger.Error("page failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	p.Page(w, r, status, "pages/error.html", title, map[string]any{
		"Status":  status,
		"Message": httpx.UserMessage(err),
	})
}

// RedirectWithFlash queues a flash message and redirects with 303.
func (p *Renderer) RedirectWithFlash(w http.ResponseWriter, r *http.Request, url, kind, message string) {
	shared.Flash(r.Context(), kind, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (p *Renderer) render(w http.ResponseWriter, r *http.Request, status int, tmpl, title string, data any, form bool) {
	sess := shared.SessionFromContext(r.Context())
	signedIn := sess != nil && sess.User() != ""
	var csrfToken string
	if sess != nil && (form || signedIn) {
		csrfToken, _ = p.csrf.EnsureToken(r.Context(), sess)
	}
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		SignedIn:    signedIn,
		Data:        data,
	}
	if err := p.templates.Render(w, status, tmpl, viewData); err != nil {
		p.logger.Error("template render failed", slog.String("template", tmpl), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
