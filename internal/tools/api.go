package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/converter"
	"github.com/informreaders/portal/internal/platform/httpx"
)

const maxAPIBody = 16 << 10

// ConversionResponse is the body of GET /api/convert.
type ConversionResponse struct {
	Category  string  `json:"category"`
	Value     float64 `json:"value"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Result    float64 `json:"result"`
	Formatted string  `json:"formatted"`
}

// MountAPI registers the JSON endpoints under the /api router.
func (h *Handler) MountAPI(r chi.Router) {
	r.Get("/convert", h.apiConvert)
	r.Get("/calculate/{slug}", h.apiCalculate)
	r.Post("/calculate/{slug}", h.apiCalculate)
}

func (h *Handler) apiConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := converter.ConvertString(q.Get("category"), q.Get("value"), q.Get("from"), q.Get("to"))
	switch {
	case errors.Is(err, converter.ErrUnknownCategory):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown converter category")
		return
	case errors.Is(err, converter.ErrUnknownUnit):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown unit")
		return
	case errors.Is(err, converter.ErrOutOfRange):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "the converted value is out of range")
		return
	case errors.Is(err, converter.ErrInvalidNumber):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "value must be a finite number")
		return
	case err != nil:
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ConversionResponse{
		Category:  res.Category,
		Value:     res.Value,
		From:      res.From.Symbol,
		To:        res.To.Symbol,
		Result:    res.Output,
		Formatted: res.Formatted,
	})
}

func (h *Handler) apiCalculate(w http.ResponseWriter, r *http.Request) {
	values, err := apiValues(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}

	slug := chi.URLParam(r, "slug")
	var outcome Outcome
	if _, ok := LookupFinancial(slug); ok {
		outcome, err = Calculate(slug, values)
	} else {
		_, outcome, err = Evaluate(slug, values)
	}
	switch {
	case errors.Is(err, calculator.ErrUnknownFormula):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown calculator")
		return
	case errors.Is(err, calculator.ErrInvalidInput):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", calculator.UserMessage(err))
		return
	case err != nil:
		h.logger.Error("calculate", slog.String("slug", slug), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, outcome)
}

// apiValues reads calculator inputs from a JSON object body or, for GET and
// form posts, from the query string and form.
func apiValues(r *http.Request) (map[string]string, error) {
	out := map[string]string{}
	if r.Method == http.MethodPost && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxAPIBody))
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return nil, errors.New("body must be a JSON object")
		}
		for k, v := range body {
			switch val := v.(type) {
			case json.Number:
				out[k] = val.String()
			case string:
				out[k] = val
			default:
				return nil, fmt.Errorf("%s must be a number", k)
			}
		}
		return out, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, errors.New("malformed parameters")
	}
	for k, v := range r.Form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}
