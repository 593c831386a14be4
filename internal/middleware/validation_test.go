package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fuelnet/loyalty/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidatedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()

	doc, err := api.GetSwagger()
	require.NoError(t, err)

	validate, err := RequestValidation(doc, testLogger())
	require.NoError(t, err)

	return validate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantCalled bool
	}{
		{name: "valid accrual", method: http.MethodPost, path: "/api/v1/cards/7/accrue", body: `{"amount_cents":25000,"fuel_type_id":3}`, wantCalled: true},
		{name: "negative amount", method: http.MethodPost, path: "/api/v1/cards/7/accrue", body: `{"amount_cents":-5}`},
		{name: "missing amount", method: http.MethodPost, path: "/api/v1/cards/7/accrue", body: `{}`},
		{name: "non numeric user", method: http.MethodGet, path: "/api/v1/cards/abc"},
		{name: "zero user", method: http.MethodGet, path: "/api/v1/cards/0"},
		{name: "valid card read", method: http.MethodGet, path: "/api/v1/cards/7", wantCalled: true},
		{name: "limit too large", method: http.MethodGet, path: "/api/v1/cards/7/purchases?limit=1000"},
		{name: "valid redemption", method: http.MethodPost, path: "/api/v1/cards/7/redeem", body: `{"points":10}`, wantCalled: true},
		{name: "points as string", method: http.MethodPost, path: "/api/v1/cards/7/redeem", body: `{"points":"10"}`},
		{name: "unknown api path passes through", method: http.MethodGet, path: "/api/v1/stations", wantCalled: true},
		{name: "non api path passes through", method: http.MethodGet, path: "/health", wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := newValidatedHandler(t, &called)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCalled, called)
			if !tt.wantCalled {
				require.Equal(t, http.StatusBadRequest, rec.Code)

				var body errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "invalid_request", body.Error)
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestRequestValidation_BodyStillReadable(t *testing.T) {
	doc, err := api.GetSwagger()
	require.NoError(t, err)

	validate, err := RequestValidation(doc, testLogger())
	require.NoError(t, err)

	var decoded map[string]any
	handler := validate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&decoded))
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards", strings.NewReader(`{"user_id":12}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 12, decoded["user_id"])
}
