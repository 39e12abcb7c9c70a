// Package server exposes the HTTP API: chat, search, GitHub analysis,
// webhooks, health, and a rendered documentation viewer.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/config"
	"github.com/akontos/hackmate/internal/search"
	"github.com/akontos/hackmate/internal/util"
	"github.com/labstack/echo/v5"
)

// Searcher is the search engine surface the handlers need.
// *search.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, query, mode, index string, size int) ([]api.SearchResult, error)
	Suggest(query string, limit int) []string
	Index(ctx context.Context, doc search.Document) error
	Document(id string) (search.Document, error)
	Count(index string) (int, error)
}

// Responder generates assistant output. *llm.Service satisfies it.
type Responder interface {
	Respond(ctx context.Context, message, retrievalContext string, history []api.HistoryEntry) string
	ValidateIdea(ctx context.Context, idea string, similar []api.SearchResult) (string, error)
	ProgressSummary(ctx context.Context, repoURL string, activity []api.ActivityItem) (string, error)
	GenerateDocument(ctx context.Context, template, repoContext string) (string, error)
	Healthy() bool
}

// RepoAnalyzer answers repository questions. *github.Client satisfies it.
type RepoAnalyzer interface {
	Activity(ctx context.Context, repoURL string, days int) ([]api.ActivityItem, error)
	Stats(ctx context.Context, repoURL string) (api.RepoStats, error)
	AnalyzeProgress(ctx context.Context, repoURL string) (api.ProgressReport, error)
	Healthy(ctx context.Context) bool
}

type Server struct {
	cfg       *config.Config
	searcher  Searcher
	responder Responder
	analyzer  RepoAnalyzer

	echo *echo.Echo
	http *http.Server
}

func New(cfg *config.Config, searcher Searcher, responder Responder, analyzer RepoAnalyzer) *Server {
	util.Assert(cfg != nil, "server.New nil config")
	util.Assert(searcher != nil, "server.New nil searcher")
	util.Assert(responder != nil, "server.New nil responder")
	util.Assert(analyzer != nil, "server.New nil analyzer")

	s := &Server{
		cfg:       cfg,
		searcher:  searcher,
		responder: responder,
		analyzer:  analyzer,
		echo:      echo.New(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo
	e.Use(corsMiddleware(s.cfg.CORSOrigins))

	chatGroup := e.Group(api.V1Prefix + "/chat")
	chatGroup.Use(rateLimitMiddleware(newClientLimiters()))
	chatGroup.POST("", s.handleChat)
	chatGroup.POST("/validate-idea", s.handleValidateIdea)
	chatGroup.POST("/progress-report", s.handleProgressReport)

	searchGroup := e.Group(api.V1Prefix + "/search")
	searchGroup.POST("", s.handleSearch)
	searchGroup.GET("/projects", s.handleSearchProjects)
	searchGroup.GET("/docs", s.handleSearchDocs)
	searchGroup.GET("/suggestions", s.handleSuggestions)

	githubGroup := e.Group(api.V1Prefix + "/github")
	githubGroup.POST("/analyze", s.handleAnalyze)
	githubGroup.GET("/activity/:owner/:repo", s.handleActivity)
	githubGroup.GET("/stats/:owner/:repo", s.handleStats)
	githubGroup.POST("/pitch", s.handlePitch)
	githubGroup.POST("/readme", s.handleReadme)

	e.POST(api.WebhookPath, s.handleWebhook)

	e.GET(api.HealthPath, s.handleHealth)
	e.GET(api.HealthPath+"/:service", s.handleServiceHealth)

	e.GET(api.DocViewPrefix+"/:id", s.handleDocView)
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("server listening", "addr", addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
