package httpx

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("backend: coupon: %w", ErrNotFound), http.StatusNotFound},
		{&FieldError{Field: "email", Message: "email already registered"}, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("wrap: %w", ErrUpstream), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

		var body ProblemDetail
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, tc.status, body.Status)
		assert.Equal(t, "about:blank", body.Type)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("dial tcp 10.0.0.3:5432: %w", ErrUpstream))
	var body ProblemDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Bad Gateway", body.Title)
	assert.Empty(t, body.Detail)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	RespondError(rec, &FieldError{Field: "value", Message: "Value must be a number."})
	body = ProblemDetail{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "value", body.Field)
	assert.Equal(t, "Value must be a number.", body.Detail)
}

func TestFieldErrorMatchesValidation(t *testing.T) {
	err := fmt.Errorf("signup: %w", &FieldError{Field: "email", Message: "taken"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "taken", UserMessage(err))
	assert.Equal(t, "Failed to load data. Please try again later.", UserMessage(fmt.Errorf("dial tcp: refused")))
	assert.Empty(t, UserMessage(nil))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, StatusFor(&FieldError{Message: "bad"}))
	assert.Equal(t, http.StatusBadGateway, StatusFor(ErrUpstream))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(fmt.Errorf("boom")))
}

func TestJSONUnencodableValueIsAServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]float64{"result": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, http.StatusInternalServerError, p.Status)
}
