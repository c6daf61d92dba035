package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/shared"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
	for _, name := range []string{"pages/home.html", "pages/error.html", "pages/converter.html", "pages/admin_software_form.html"} {
		assert.True(t, engine.Has(name), name)
	}
}

func TestRenderErrorPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, http.StatusNotFound, "pages/error.html", TemplateData{
		Title: "Not found",
		Flash: &shared.FlashMessage{Kind: "error", Message: "Failed to load data."},
		Data:  map[string]any{"Status": 404, "Message": "The requested item could not be found."},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "could not be found"))
	assert.True(t, strings.Contains(body, "Failed to load data."))
}

func TestRenderUnknownTemplateLeavesResponseUntouched(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, http.StatusOK, "pages/missing.html", TemplateData{})
	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatNumber(1234567, 0))
	assert.Equal(t, "1,234.57", FormatNumber(1234.567, 2))
	assert.Equal(t, "8,884.88", FormatMoney(decimal.RequireFromString("8884.876")))
	assert.Equal(t, "12.00", FormatMoney(decimal.NewFromInt(12)))
}
