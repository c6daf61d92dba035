package tools

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/converter"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

// Handler serves the converter and calculator pages.
type Handler struct {
	logger *slog.Logger
	pages  *view.Renderer
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, pages: view.NewRenderer(logger, templates, csrf)}
}

// MountRoutes registers /converters and /calculators.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/converters", func(r chi.Router) {
		r.Get("/", h.converters)
		r.Get("/{category}", h.converterForm)
		r.Post("/{category}", h.convert)
	})
	r.Route("/calculators", func(r chi.Router) {
		r.Get("/", h.calculators)
		r.Get("/physics/{slug}", h.physicsForm)
		r.Post("/physics/{slug}", h.physics)
		r.Get("/{slug}", h.financialForm)
		r.Post("/{slug}", h.financial)
	})
}

func (h *Handler) converters(w http.ResponseWriter, r *http.Request) {
	h.pages.Page(w, r, http.StatusOK, "pages/converters.html", "Unit converters", map[string]any{
		"Categories": converter.Categories(),
	})
}

func (h *Handler) lookupCategory(w http.ResponseWriter, r *http.Request) (converter.Category, bool) {
	c, err := converter.Lookup(chi.URLParam(r, "category"))
	if err != nil {
		h.pages.Error(w, r, "Unit converters", httpx.ErrNotFound)
		return converter.Category{}, false
	}
	return c, true
}

func (h *Handler) converterForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCategory(w, r)
	if !ok {
		return
	}
	data := map[string]any{"Category": c, "Value": "1", "From": c.Units[0].Symbol, "To": c.Units[1].Symbol}
	h.pages.Form(w, r, http.StatusOK, "pages/converter.html", c.Title+" converter", data)
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookupCategory(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.pages.Error(w, r, c.Title, &httpx.FieldError{Message: "Invalid form submission."})
		return
	}
	value, from, to := r.PostForm.Get("value"), r.PostForm.Get("from"), r.PostForm.Get("to")
	data := map[string]any{"Category": c, "Value": value, "From": from, "To": to}
	title := c.Title + " converter"

	result, err := converter.ConvertString(c.Slug, value, from, to)
	if err != nil {
		data["Errors"] = conversionErrors(err)
		h.pages.Form(w, r, http.StatusBadRequest, "pages/converter.html", title, data)
		return
	}
	rows, err := converter.Table(c.Slug, result.Value, from)
	if err != nil {
		h.pages.Error(w, r, title, err)
		return
	}
	data["Result"] = result
	data["Rows"] = rows
	h.pages.Form(w, r, http.StatusOK, "pages/converter.html", title, data)
}

func conversionErrors(err error) map[string]string {
	switch {
	case errors.Is(err, converter.ErrOutOfRange):
		return map[string]string{"value": "The result is too large to display. Try a smaller value."}
	case errors.Is(err, converter.ErrInvalidNumber):
		return map[string]string{"value": "Please enter a valid number."}
	case errors.Is(err, converter.ErrUnknownUnit):
		return map[string]string{"units": "Please choose units from the list."}
	default:
		return map[string]string{"value": "The conversion could not be completed."}
	}
}

func (h *Handler) calculators(w http.ResponseWriter, r *http.Request) {
	h.pages.Page(w, r, http.StatusOK, "pages/calculators.html", "Calculators", map[string]any{
		"Financials": Financials(),
		"Formulas":   calculator.Formulas(),
	})
}

func defaults(fields []Field) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Default
	}
	return out
}

// posted collects the named fields from a parsed form.
func posted(r *http.Request, names []string) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = r.PostForm.Get(name)
	}
	return out, nil
}

func (h *Handler) financialForm(w http.ResponseWriter, r *http.Request) {
	f, ok := LookupFinancial(chi.URLParam(r, "slug"))
	if !ok {
		h.pages.Error(w, r, "Calculators", httpx.ErrNotFound)
		return
	}
	h.pages.Form(w, r, http.StatusOK, "pages/calculator.html", f.Title, map[string]any{
		"Calculator": f,
		"Values":     defaults(f.Fields),
	})
}

func (h *Handler) financial(w http.ResponseWriter, r *http.Request) {
	f, ok := LookupFinancial(chi.URLParam(r, "slug"))
	if !ok {
		h.pages.Error(w, r, "Calculators", httpx.ErrNotFound)
		return
	}
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	values, err := posted(r, names)
	if err != nil {
		h.pages.Error(w, r, f.Title, &httpx.FieldError{Message: "Invalid form submission."})
		return
	}
	data := map[string]any{"Calculator": f, "Values": values}

	outcome, err := Calculate(f.Slug, values)
	if err != nil {
		data["Error"] = calculator.UserMessage(err)
		h.pages.Form(w, r, http.StatusBadRequest, "pages/calculator.html", f.Title, data)
		return
	}
	data["Outcome"] = outcome
	h.pages.Form(w, r, http.StatusOK, "pages/calculator.html", f.Title, data)
}

func (h *Handler) physicsForm(w http.ResponseWriter, r *http.Request) {
	f, err := calculator.LookupFormula(chi.URLParam(r, "slug"))
	if err != nil {
		h.pages.Error(w, r, "Calculators", httpx.ErrNotFound)
		return
	}
	h.pages.Form(w, r, http.StatusOK, "pages/physics.html", f.Title+" calculator", map[string]any{
		"Formula": f,
		"Values":  map[string]string{},
	})
}

func (h *Handler) physics(w http.ResponseWriter, r *http.Request) {
	f, err := calculator.LookupFormula(chi.URLParam(r, "slug"))
	if err != nil {
		h.pages.Error(w, r, "Calculators", httpx.ErrNotFound)
		return
	}
	names := make([]string, 0, len(f.Inputs))
	for _, in := range f.Inputs {
		names = append(names, in.Name)
	}
	values, err := posted(r, names)
	if err != nil {
		h.pages.Error(w, r, f.Title, &httpx.FieldError{Message: "Invalid form submission."})
		return
	}
	title := f.Title + " calculator"
	data := map[string]any{"Formula": f, "Values": values}

	_, outcome, err := Evaluate(f.Slug, values)
	if err != nil {
		data["Error"] = calculator.UserMessage(err)
		h.pages.Form(w, r, http.StatusBadRequest, "pages/physics.html", title, data)
		return
	}
	data["Outcome"] = outcome
	h.pages.Form(w, r, http.StatusOK, "pages/physics.html", title, data)
}
