package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
)

// Documentation routes
const (
	DocsPath        = "/docs"
	OpenAPIJSONPath = "/docs/openapi"
	OpenAPIYAMLPath = "/docs/openapi.yaml"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} {{.Version}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin: 0">
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: "#swagger-ui", deepLinking: true });
  </script>
</body>
</html>
`))

type docsPageData struct {
	Title   string
	Version string
	SpecURL string
}

// RegisterDocsRoutes serves the API reference on mux: a Swagger UI page at
// DocsPath and the OpenAPI document as JSON and YAML. The root path
// redirects to the page. Everything is rendered once, up front.
func RegisterDocsRoutes(mux *http.ServeMux) error {
	doc, err := GetSwagger()
	if err != nil {
		return err
	}

	spec, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}

	var page bytes.Buffer
	err = docsPage.Execute(&page, docsPageData{
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
		SpecURL: OpenAPIJSONPath,
	})
	if err != nil {
		return fmt.Errorf("failed to render docs page: %w", err)
	}

	mux.Handle("GET /{$}", http.RedirectHandler(DocsPath, http.StatusFound))
	mux.Handle("GET "+DocsPath, staticContent("text/html; charset=utf-8", page.Bytes()))
	mux.Handle("GET "+OpenAPIJSONPath, staticContent("application/json", spec))
	mux.Handle("GET "+OpenAPIYAMLPath, staticContent("application/yaml", openAPIDocument))
	return nil
}

func staticContent(contentType string, body []byte) http.Handler {
	length := strconv.Itoa(len(body))
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", length)
		_, _ = w.Write(body) //nolint:errcheck // Nothing useful to do if write fails
	})
}
