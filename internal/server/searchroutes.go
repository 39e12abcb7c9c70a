package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akontos/hackmate/internal/api"
	"github.com/labstack/echo/v5"
)

func normalizeMode(mode string) string {
	switch mode {
	case api.ModeSemantic, api.ModeKeyword:
		return mode
	default:
		return api.ModeHybrid
	}
}

func (s *Server) runSearch(c *echo.Context, query, mode, index string, size int) error {
	if strings.TrimSpace(query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}
	mode = normalizeMode(mode)

	start := time.Now()
	results, err := s.searcher.Search(c.Request().Context(), query, mode, index, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, api.SearchResponse{
		Results: results,
		Total:   len(results),
		Query:   query,
		Mode:    mode,
		TookMS:  time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleSearch(c *echo.Context) error {
	var req api.SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return s.runSearch(c, req.Query, req.Mode, req.Index, req.Size)
}

func querySize(c *echo.Context) int {
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return size
}

func (s *Server) handleSearchProjects(c *echo.Context) error {
	return s.runSearch(c, c.QueryParam("q"), c.QueryParam("mode"), api.IndexProjects, querySize(c))
}

func (s *Server) handleSearchDocs(c *echo.Context) error {
	return s.runSearch(c, c.QueryParam("q"), c.QueryParam("mode"), api.IndexDocs, querySize(c))
}

func (s *Server) handleSuggestions(c *echo.Context) error {
	query := c.QueryParam("q")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return c.JSON(http.StatusOK, api.SuggestionsResponse{
		Suggestions: s.searcher.Suggest(query, limit),
		Query:       query,
	})
}
