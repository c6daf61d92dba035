// Package view renders the embedded html/template pages.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	Description string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	SignedIn    bool
	Data        any
}

// Crumb is one breadcrumb link. The last crumb usually has no URL.
type Crumb struct {
	Label string
	URL   string
}

// Crumbs pairs up label/url arguments into breadcrumbs.
func Crumbs(pairs ...string) []Crumb {
	out := make([]Crumb, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Crumb{Label: pairs[i], URL: pairs[i+1]})
	}
	return out
}

var printer = message.NewPrinter(language.English)

// FormatNumber groups thousands and keeps up to maxFraction decimals.
func FormatNumber(v float64, maxFraction int) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFraction)))
}

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"formatDay": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Mon, 02 Jan 2006")
		},
		"formatNumber": func(v any) string {
			switch n := v.(type) {
			case int:
				return FormatNumber(float64(n), 0)
			case int64:
				return FormatNumber(float64(n), 0)
			case float64:
				return FormatNumber(n, 2)
			default:
				return fmt.Sprint(v)
			}
		},
		"formatMoney": FormatMoney,
		"join": func(items []string, sep string) string {
			return strings.Join(items, sep)
		},
		"hasPrefix": strings.HasPrefix,
		"add":       func(a, b int) int { return a + b },
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
		"year":   func() int { return time.Now().Year() },
		"crumbs": Crumbs,
	}
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(funcMap()).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData. The page is buffered so
// a template error leaves the response untouched for the caller to report.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a template with the given name was parsed.
func (e *Engine) Has(name string) bool {
	return e != nil && e.templates.Lookup(name) != nil
}
