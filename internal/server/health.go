package server

import (
	"fmt"
	"net/http"

	"github.com/akontos/hackmate/internal/api"
	"github.com/labstack/echo/v5"
)

func statusWord(ok bool) string {
	if ok {
		return "healthy"
	}
	return "unhealthy"
}

func (s *Server) searchHealthy() (bool, string) {
	total := 0
	for _, index := range []string{api.IndexProjects, api.IndexDocs, api.IndexActivity} {
		n, err := s.searcher.Count(index)
		if err != nil {
			return false, err.Error()
		}
		total += n
	}
	return true, fmt.Sprintf("%d documents indexed", total)
}

func (s *Server) handleHealth(c *echo.Context) error {
	searchOK, searchDetail := s.searchHealthy()
	llmOK := s.responder.Healthy()
	githubOK := s.analyzer.Healthy(c.Request().Context())

	status := "healthy"
	if !searchOK || !llmOK || !githubOK {
		status = "degraded"
	}

	return c.JSON(http.StatusOK, api.HealthResponse{
		Status: status,
		Services: map[string]string{
			"search": statusWord(searchOK),
			"llm":    statusWord(llmOK),
			"github": statusWord(githubOK),
		},
		Details: map[string]string{
			"search": searchDetail,
		},
	})
}

func (s *Server) handleServiceHealth(c *echo.Context) error {
	var ok bool
	switch c.Param("service") {
	case "search":
		ok, _ = s.searchHealthy()
	case "llm":
		ok = s.responder.Healthy()
	case "github":
		ok = s.analyzer.Healthy(c.Request().Context())
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown service")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"service": c.Param("service"),
		"status":  statusWord(ok),
	})
}
