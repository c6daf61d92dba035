package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/rbac"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

const dashboardAuditLimit = 5

// Handler serves the /admin back-office pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	pages     *view.Renderer
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, mw rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		pages:     view.NewRenderer(logger, templates, csrf),
		rbac:      mw,
		validator: shared.NewValidator(),
	}
}

// MountRoutes registers the back-office routes. Every route requires a
// signed-in admin; writes additionally require the matching permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAuth)
		r.Get("/", h.dashboard)

		r.With(h.rbac.RequireAny(shared.PermSoftwareView)).Get("/software", h.listSoftware)
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAny(shared.PermSoftwareEdit))
			r.Get("/software/new", h.newSoftware)
			r.Post("/software", h.createSoftware)
			r.Get("/software/{id}/edit", h.editSoftware)
			r.Post("/software/{id}", h.updateSoftware)
			r.Post("/software/{id}/delete", h.deleteSoftware)
		})

		r.With(h.rbac.RequireAny(shared.PermProfileView)).Get("/profile", h.showProfile)
		r.With(h.rbac.RequireAny(shared.PermProfileEdit)).Post("/profile", h.updateProfile)
		r.With(h.rbac.RequireAny(shared.PermAuditView)).Get("/audit", h.listAudit)
		r.With(h.rbac.RequireAny(shared.PermCacheFlush)).Post("/cache/flush", h.flushCache)
	})
}

type dashboardData struct {
	Principal     rbac.Principal
	SoftwareTotal int
	Recent        []shared.AuditLog
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := rbac.PrincipalFromContext(r.Context())
	data := dashboardData{Principal: p}

	g, ctx := errgroup.WithContext(r.Context())
	if p.Can(shared.PermSoftwareView) {
		g.Go(func() error {
			listing, err := h.service.ListSoftware(ctx, "", 1)
			if err != nil {
				h.logger.Warn("dashboard software total", slog.Any("error", err))
				return nil
			}
			data.SoftwareTotal = listing.Pagination.Total
			return nil
		})
	}
	if p.Can(shared.PermAuditView) {
		g.Go(func() error {
			recent, err := h.service.RecentAudit(ctx, dashboardAuditLimit)
			if err != nil && !errors.Is(err, ErrAuditUnavailable) {
				h.logger.Warn("dashboard audit", slog.Any("error", err))
			}
			data.Recent = recent
			return nil
		})
	}
	_ = g.Wait()
	h.pages.Form(w, r, http.StatusOK, "pages/admin_dashboard.html", "Dashboard", data)
}

func (h *Handler) listSoftware(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listing, err := h.service.ListSoftware(r.Context(), q.Get("search"), shared.PageFromQuery(q))
	if err != nil {
		h.pages.Error(w, r, "Software", err)
		return
	}
	listing.Pagination = listing.Pagination.WithBase("/admin/software", q)
	h.pages.Form(w, r, http.StatusOK, "pages/admin_software_list.html", "Software", listing)
}

type softwareFormData struct {
	ID     string
	Form   backend.SoftwareInput
	Errors map[string]string
}

func (d softwareFormData) Action() string {
	if d.ID == "" {
		return "/admin/software"
	}
	return "/admin/software/" + d.ID
}

func (h *Handler) newSoftware(w http.ResponseWriter, r *http.Request) {
	h.pages.Form(w, r, http.StatusOK, "pages/admin_software_form.html", "New software", softwareFormData{})
}

func (h *Handler) editSoftware(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.service.Software(r.Context(), id)
	if err != nil {
		h.pages.Error(w, r, "Edit software", err)
		return
	}
	h.pages.Form(w, r, http.StatusOK, "pages/admin_software_form.html", "Edit "+item.Name, softwareFormData{ID: id, Form: softwareInputFrom(item)})
}

func (h *Handler) createSoftware(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseSoftware(w, r, "")
	if !ok {
		return
	}
	item, err := h.service.CreateSoftware(r.Context(), actorID(r), in)
	if err != nil {
		h.softwareFailed(w, r, "", in, err)
		return
	}
	h.pages.RedirectWithFlash(w, r, "/admin/software", "success", item.Name+" was added.")
}

func (h *Handler) updateSoftware(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := h.parseSoftware(w, r, id)
	if !ok {
		return
	}
	if _, err := h.service.UpdateSoftware(r.Context(), actorID(r), id, in); err != nil {
		h.softwareFailed(w, r, id, in, err)
		return
	}
	h.pages.RedirectWithFlash(w, r, "/admin/software", "success", in.Name+" was updated.")
}

func (h *Handler) deleteSoftware(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSoftware(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		h.logger.Warn("delete software", slog.String("id", chi.URLParam(r, "id")), slog.Any("error", err))
		h.pages.RedirectWithFlash(w, r, "/admin/software", "error", httpx.UserMessage(err))
		return
	}
	h.pages.RedirectWithFlash(w, r, "/admin/software", "success", "The entry was deleted.")
}

func (h *Handler) parseSoftware(w http.ResponseWriter, r *http.Request, id string) (backend.SoftwareInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return backend.SoftwareInput{}, false
	}
	in := backend.SoftwareInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Slug:        strings.ToLower(strings.TrimSpace(r.PostFormValue("slug"))),
		Category:    strings.ToLower(strings.TrimSpace(r.PostFormValue("category"))),
		Version:     strings.TrimSpace(r.PostFormValue("version")),
		License:     strings.TrimSpace(r.PostFormValue("license")),
		Developer:   strings.TrimSpace(r.PostFormValue("developer")),
		OS:          splitList(r.PostFormValue("os")),
		Size:        strings.TrimSpace(r.PostFormValue("size")),
		Logo:        strings.TrimSpace(r.PostFormValue("logo")),
		DownloadURL: strings.TrimSpace(r.PostFormValue("download_url")),
		Website:     strings.TrimSpace(r.PostFormValue("website")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	if errs := shared.ValidationMessages(h.validator.Struct(in)); len(errs) > 0 {
		h.pages.Form(w, r, http.StatusBadRequest, "pages/admin_software_form.html", "Software", softwareFormData{ID: id, Form: in, Errors: errs})
		return in, false
	}
	return in, true
}

// softwareFailed shows backend validation inline and flashes anything else.
func (h *Handler) softwareFailed(w http.ResponseWriter, r *http.Request, id string, in backend.SoftwareInput, err error) {
	var fe *httpx.FieldError
	if errors.As(err, &fe) {
		field := fe.Field
		if field == "" {
			field = "general"
		}
		h.pages.Form(w, r, httpx.StatusFor(err), "pages/admin_software_form.html", "Software", softwareFormData{ID: id, Form: in, Errors: map[string]string{field: fe.Message}})
		return
	}
	h.logger.Error("save software", slog.String("id", id), slog.Any("error", err))
	shared.Flash(r.Context(), "error", httpx.UserMessage(err))
	h.pages.Form(w, r, httpx.StatusFor(err), "pages/admin_software_form.html", "Software", softwareFormData{ID: id, Form: in})
}

type profileData struct {
	Profile backend.AdminProfile
	Form    backend.AdminProfileInput
	Errors  map[string]string
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Profile(r.Context())
	if err != nil {
		h.pages.Error(w, r, "Profile", err)
		return
	}
	h.pages.Form(w, r, http.StatusOK, "pages/admin_profile.html", "Profile", profileData{
		Profile: p,
		Form:    backend.AdminProfileInput{Name: p.Name, Email: p.Email, Phone: p.Phone, Bio: p.Bio},
	})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := backend.AdminProfileInput{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Phone: strings.TrimSpace(r.PostFormValue("phone")),
		Bio:   strings.TrimSpace(r.PostFormValue("bio")),
	}
	if errs := shared.ValidationMessages(h.validator.Struct(in)); len(errs) > 0 {
		h.pages.Form(w, r, http.StatusBadRequest, "pages/admin_profile.html", "Profile", profileData{Form: in, Errors: errs})
		return
	}
	if _, err := h.service.UpdateProfile(r.Context(), actorID(r), in); err != nil {
		var fe *httpx.FieldError
		errs := map[string]string{"general": httpx.UserMessage(err)}
		if errors.As(err, &fe) && fe.Field != "" {
			errs = map[string]string{fe.Field: fe.Message}
		} else if !errors.As(err, &fe) {
			h.logger.Error("update profile", slog.Any("error", err))
		}
		h.pages.Form(w, r, httpx.StatusFor(err), "pages/admin_profile.html", "Profile", profileData{Form: in, Errors: errs})
		return
	}
	h.pages.RedirectWithFlash(w, r, "/admin/profile", "success", "Profile saved.")
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.RecentAudit(r.Context(), 100)
	if err != nil {
		h.logger.Error("list audit", slog.Any("error", err))
		h.pages.Error(w, r, "Audit log", err)
		return
	}
	h.pages.Page(w, r, http.StatusOK, "pages/admin_audit.html", "Audit log", map[string]any{"Entries": entries})
}

func (h *Handler) flushCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.FlushCache(r.Context(), actorID(r)); err != nil {
		h.logger.Error("flush cache", slog.Any("error", err))
		h.pages.RedirectWithFlash(w, r, "/admin", "error", "The cache could not be flushed.")
		return
	}
	h.pages.RedirectWithFlash(w, r, "/admin", "success", "Cached pages will be refreshed on the next visit.")
}

func actorID(r *http.Request) int64 {
	p, _ := rbac.PrincipalFromContext(r.Context())
	return p.UserID
}

func softwareInputFrom(s backend.Software) backend.SoftwareInput {
	return backend.SoftwareInput{
		Name: s.Name, Slug: s.Slug, Category: s.Category, Version: s.Version,
		License: s.License, Developer: s.Developer, OS: s.OS, Size: s.Size,
		Logo: s.Logo, DownloadURL: s.DownloadURL, Website: s.Website, Description: s.Description,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
