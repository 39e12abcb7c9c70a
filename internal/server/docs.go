package server

import (
	"bytes"
	"net/http"
	"text/template"

	"github.com/akontos/hackmate/internal/search"
	"github.com/akontos/hackmate/internal/util"
	"github.com/labstack/echo/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var docTemplate = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; }
code { background: #f4f4f4; padding: 0.1rem 0.3rem; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

// handleDocView renders a stored documentation page as sanitized HTML.
func (s *Server) handleDocView(c *echo.Context) error {
	id := c.Param("id")
	if err := util.ValidateDocID(id); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document ID")
	}

	doc, err := s.searcher.Document("doc_" + id)
	if err != nil {
		if search.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "document lookup failed")
	}

	md := goldmark.New()
	var buf bytes.Buffer
	if err := md.Convert([]byte(doc.Content), &buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to convert markdown")
	}
	html := bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes())

	var page bytes.Buffer
	if err := docTemplate.Execute(&page, struct {
		Title   string
		Content string
	}{doc.Title, string(html)}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render template")
	}

	return c.HTML(http.StatusOK, page.String())
}
