package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)

	assert.Equal(t, "Loyalty API", doc.Info.Title)
	for _, path := range []string{
		"/health",
		"/api/v1/tiers",
		"/api/v1/cards",
		"/api/v1/cards/{userId}",
		"/api/v1/cards/{userId}/accrue",
		"/api/v1/cards/{userId}/redeem",
		"/api/v1/cards/{userId}/purchases",
		"/api/v1/purchases",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "missing path %s", path)
	}
}

func TestDocsRoutes(t *testing.T) {
	mux := http.NewServeMux()
	require.NoError(t, RegisterDocsRoutes(mux))

	doc, err := GetSwagger()
	require.NoError(t, err)

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("root redirects to docs", func(t *testing.T) {
		rec := serve("/")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, DocsPath, rec.Header().Get("Location"))
	})

	t.Run("page names the document", func(t *testing.T) {
		rec := serve(DocsPath)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

		body := rec.Body.String()
		assert.Contains(t, body, `id="swagger-ui"`)
		assert.Contains(t, body, "<title>"+doc.Info.Title+" "+doc.Info.Version+"</title>")
		assert.Regexp(t, `url: "(\\/|/)docs(\\/|/)openapi"`, body)
	})

	t.Run("json document", func(t *testing.T) {
		rec := serve(OpenAPIJSONPath)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "3.0.3", body["openapi"])
	})

	t.Run("yaml document", func(t *testing.T) {
		rec := serve(OpenAPIYAMLPath)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.Equal(t, openAPIDocument, rec.Body.Bytes())
	})

	t.Run("unknown path", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve("/docs/missing").Code)
	})
}
