package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/akontos/hackmate/internal/api"
	"github.com/labstack/echo/v5"
)

func bindRepoRequest(c *echo.Context) (api.RepoRequest, error) {
	var req api.RepoRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RepoURL == "" {
		return req, echo.NewHTTPError(http.StatusBadRequest, "repo_url required")
	}
	return req, nil
}

func (s *Server) handleAnalyze(c *echo.Context) error {
	req, err := bindRepoRequest(c)
	if err != nil {
		return err
	}

	report, err := s.analyzer.AnalyzeProgress(c.Request().Context(), req.RepoURL)
	if err != nil {
		slog.Error("repository analysis failed", "repo", req.RepoURL, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "unable to analyze repository")
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleActivity(c *echo.Context) error {
	owner, repo := c.Param("owner"), c.Param("repo")
	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days <= 0 {
		days = 7
	}

	repoURL := fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	activity, err := s.analyzer.Activity(c.Request().Context(), repoURL, days)
	if err != nil {
		slog.Error("activity fetch failed", "repo", repoURL, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "unable to fetch repository activity")
	}

	return c.JSON(http.StatusOK, api.ActivityResponse{
		Repository:      owner + "/" + repo,
		PeriodDays:      days,
		Activity:        activity,
		TotalActivities: len(activity),
	})
}

func (s *Server) handleStats(c *echo.Context) error {
	owner, repo := c.Param("owner"), c.Param("repo")

	repoURL := fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	stats, err := s.analyzer.Stats(c.Request().Context(), repoURL)
	if err != nil {
		slog.Error("stats fetch failed", "repo", repoURL, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "unable to fetch repository stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// repoContext renders stats and activity into model input for generation.
func (s *Server) repoContext(ctx context.Context, repoURL string) (string, string, error) {
	stats, err := s.analyzer.Stats(ctx, repoURL)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", stats.Name)
	if stats.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", stats.Description)
	}
	if len(stats.Languages) > 0 {
		langs := make([]string, 0, len(stats.Languages))
		for lang := range stats.Languages {
			langs = append(langs, lang)
		}
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(langs, ", "))
	}
	fmt.Fprintf(&b, "Stars: %d, forks: %d, open issues: %d\n", stats.Stars, stats.Forks, stats.OpenIssues)
	for _, contributor := range stats.Contributors {
		fmt.Fprintf(&b, "Contributor: %s (%d contributions)\n", contributor.Login, contributor.Contributions)
	}

	if activity, err := s.analyzer.Activity(ctx, repoURL, 7); err == nil {
		for _, item := range activity {
			fmt.Fprintf(&b, "%s: %s\n", item.Type, item.Message)
		}
	}

	return stats.Name, b.String(), nil
}

func (s *Server) handleGenerate(c *echo.Context, kind string) error {
	req, err := bindRepoRequest(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	name, repoContext, err := s.repoContext(ctx, req.RepoURL)
	if err != nil {
		slog.Error("repository context fetch failed", "repo", req.RepoURL, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "unable to analyze repository")
	}

	content, err := s.responder.GenerateDocument(ctx, kind, repoContext)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "generation failed")
	}

	return c.JSON(http.StatusOK, api.Document{
		Repository: name,
		Kind:       kind,
		Content:    content,
	})
}

func (s *Server) handlePitch(c *echo.Context) error {
	return s.handleGenerate(c, "pitch")
}

func (s *Server) handleReadme(c *echo.Context) error {
	return s.handleGenerate(c, "readme")
}
