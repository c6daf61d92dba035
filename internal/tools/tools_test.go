package tools_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/tools"
	"github.com/informreaders/portal/internal/view"
)

func TestCalculateLoanEMI(t *testing.T) {
	out, err := tools.Calculate("loan-emi", map[string]string{"principal": "1,00,000", "rate": "12", "months": "12"})
	require.NoError(t, err)
	assert.Equal(t, "loan-emi", out.Calculator)
	require.NotEmpty(t, out.Figures)
	assert.Equal(t, "emi", out.Figures[0].Key)
	assert.Equal(t, "8884.88", out.Figures[0].Value)
	assert.Len(t, out.Schedule, 12)
	assert.Equal(t, "0.00", out.Schedule[11].Balance)
}

func TestCalculateUsesDefaults(t *testing.T) {
	out, err := tools.Calculate("simple-interest", map[string]string{"principal": "1000", "rate": "10"})
	require.NoError(t, err)
	assert.Equal(t, "100.00", out.Figures[0].Value)
	assert.Equal(t, "1100.00", out.Figures[1].Value)
}

func TestCalculateErrors(t *testing.T) {
	_, err := tools.Calculate("loan-emi", map[string]string{"rate": "12", "months": "12"})
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
	assert.Equal(t, "Loan amount is required", calculator.UserMessage(err))

	_, err = tools.Calculate("loan-emi", map[string]string{"principal": "1000", "rate": "abc", "months": "12"})
	assert.Equal(t, "Interest rate must be a number", calculator.UserMessage(err))

	_, err = tools.Calculate("sip", map[string]string{"monthly": "500", "rate": "8", "months": "1.5"})
	assert.Equal(t, "Duration must be a whole number", calculator.UserMessage(err))

	_, err = tools.Calculate("discount", map[string]string{"price": "100", "percent": "150"})
	assert.Equal(t, "Discount must be between 0 and 100", calculator.UserMessage(err))

	_, err = tools.Calculate("mortgage", nil)
	assert.ErrorIs(t, err, calculator.ErrUnknownFormula)
}

func TestEvaluatePhysics(t *testing.T) {
	res, out, err := tools.Evaluate("velocity", map[string]string{"distance": "100", "time": "20"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Value)
	assert.Equal(t, "5 m/s", out.Figures[0].Value)

	_, _, err = tools.Evaluate("velocity", map[string]string{"distance": "far", "time": "20"})
	assert.Equal(t, "Distance must be a number", calculator.UserMessage(err))

	_, _, err = tools.Evaluate("velocity", map[string]string{"distance": "100"})
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func TestFinancialsSorted(t *testing.T) {
	list := tools.Financials()
	require.Len(t, list, 5)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Slug, list[i].Slug)
	}
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	h := tools.NewHandler(nil, templates, shared.NewCSRFManager("secret"))
	r := chi.NewRouter()
	h.MountRoutes(r)
	r.Route("/api", h.MountAPI)
	return r
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestConverterPages(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/converters/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/converters/length")

	rec = postForm(t, router, "/converters/length", url.Values{"value": {"1"}, "from": {"km"}, "to": {"m"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>1000</strong>")
	assert.Contains(t, rec.Body.String(), "All conversions")

	rec = postForm(t, router, "/converters/length", url.Values{"value": {"one"}, "from": {"km"}, "to": {"m"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid number.")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/converters/flux", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculatorPages(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calculators/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/calculators/physics/velocity")
	assert.Contains(t, rec.Body.String(), "/calculators/loan-emi")

	rec = postForm(t, router, "/calculators/discount", url.Values{"price": {"249.99"}, "percent": {"20"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "199.99")

	rec = postForm(t, router, "/calculators/physics/velocity", url.Values{"distance": {"100"}, "time": {"0"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Time cannot be zero")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calculators/physics/warp-speed", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIConvert(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/convert?category=temperature&value=100&from=c&to=f", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body tools.ConversionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 212.0, body.Result, 1e-9)
	assert.Equal(t, "212", body.Formatted)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/convert?category=flux&value=1&from=a&to=b", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/convert?category=length&value=abc&from=m&to=km", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPICalculate(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate/loan-emi", strings.NewReader(`{"principal":100000,"rate":"12","months":12}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var out tools.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "8884.88", out.Figures[0].Value)
	assert.Len(t, out.Schedule, 12)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calculate/velocity?distance=100&time=20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"5 m/s"`)

	req = httptest.NewRequest(http.MethodPost, "/api/calculate/discount", strings.NewReader(`{"price":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calculate/warp-speed", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calculate/discount?price=10&percent=120", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Discount must be between 0 and 100")
}

func TestAPIRejectsOverflowingInput(t *testing.T) {
	router := newRouter(t)

	for _, target := range []string{
		"/api/convert?category=data-storage&value=1e308&from=pb&to=bit",
		"/api/calculate/compound-interest?principal=1000&rate=100&years=5000&frequency=12",
		"/api/calculate/sip?monthly=100&rate=12&months=100000",
		"/api/calculate/loan-emi?principal=1000&rate=1000000&months=600",
		"/api/calculate/kinetic-energy?mass=1e300&velocity=1e300",
	} {
		rec := httptest.NewRecorder()
		require.NotPanics(t, func() {
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		}, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"), target)
		assert.NotEmpty(t, rec.Body.String(), target)
	}
}

func TestAPIConvertAcceptsUnitCase(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/convert?category=LENGTH&value=1&from=KM&to=M", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body tools.ConversionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "km", body.From)
	assert.Equal(t, "1000", body.Formatted)
}
