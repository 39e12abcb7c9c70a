package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/intent"
	"github.com/akontos/hackmate/internal/util"
	"github.com/labstack/echo/v5"
	"github.com/lithammer/shortuuid/v4"
)

const (
	contextDocs     = 3
	contextProjects = 3
	validationSize  = 5
	activityDays    = 3
	snippetLen      = 200
	contextLen      = 400
)

func (s *Server) handleChat(c *echo.Context) error {
	var req api.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	ctx := c.Request().Context()

	detected := intent.Intent(req.Intent)
	if !intent.Valid(req.Intent) {
		detected = intent.Classify(req.Message)
	}

	formatted, sources := s.gatherContext(ctx, req.Message, detected, req.RepoURL)
	response := s.responder.Respond(ctx, req.Message, formatted, req.History)

	return c.JSON(http.StatusOK, api.ChatResponse{
		Response:       response,
		Sources:        sources,
		Suggestions:    followUpSuggestions(detected),
		ConversationID: shortuuid.New(),
	})
}

func (s *Server) handleValidateIdea(c *echo.Context) error {
	var req api.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	ctx := c.Request().Context()

	similar, err := s.searcher.Search(ctx, req.Message, api.ModeHybrid, api.IndexProjects, validationSize)
	if err != nil {
		slog.Warn("similar-project search failed", "error", err)
		similar = nil
	}

	response, err := s.responder.ValidateIdea(ctx, req.Message, similar)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to validate idea")
	}

	sources := make([]api.Source, 0, len(similar))
	for _, project := range similar {
		sources = append(sources, api.Source{
			Type:           "devpost_project",
			Title:          project.Title,
			Snippet:        util.Truncate(project.Description, snippetLen),
			URL:            project.URL,
			Origin:         project.Origin,
			RelevanceScore: project.Score,
		})
	}

	return c.JSON(http.StatusOK, api.ChatResponse{
		Response: response,
		Sources:  sources,
		Suggestions: []string{
			"How can I differentiate my idea from these similar projects?",
			"What technical challenges should I expect?",
			"What technologies would work best for this idea?",
			"How can I validate this idea with potential users?",
		},
	})
}

func (s *Server) handleProgressReport(c *echo.Context) error {
	var req api.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RepoURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Repository URL is required")
	}

	ctx := c.Request().Context()

	report, err := s.analyzer.AnalyzeProgress(ctx, req.RepoURL)
	if err != nil {
		slog.Error("progress analysis failed", "repo", req.RepoURL, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "unable to analyze repository")
	}

	response, err := s.responder.ProgressSummary(ctx, req.RepoURL, report.RecentActivity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate progress report")
	}

	source := api.Source{
		Type:    "github_analysis",
		Title:   report.Repository,
		Snippet: fmt.Sprintf("%s: %d commits, %s intensity", report.AnalysisPeriod, report.CommitAnalysis.TotalCommits, report.ProgressMetrics.DevelopmentIntensity),
		Origin:  "github",
	}

	return c.JSON(http.StatusOK, api.ChatResponse{
		Response: response,
		Sources:  []api.Source{source},
		Suggestions: []string{
			"What should we focus on next?",
			"Are we on track for the deadline?",
			"What potential blockers should we address?",
			"How can we improve our development velocity?",
		},
	})
}

// gatherContext assembles retrieval context for a chat turn: documentation
// always, similar projects for idea questions, repository activity for
// progress questions. Retrieval failures degrade to less context, never to
// a failed turn.
func (s *Server) gatherContext(ctx context.Context, message string, detected intent.Intent, repoURL string) (string, []api.Source) {
	var b strings.Builder
	var sources []api.Source

	docs, err := s.searcher.Search(ctx, message, api.ModeHybrid, api.IndexDocs, contextDocs)
	if err != nil {
		slog.Warn("documentation search failed", "error", err)
	}
	if len(docs) > 0 {
		b.WriteString("Relevant documentation:\n")
		for i, doc := range docs {
			fmt.Fprintf(&b, "%d. %s (%s)\n   %s\n", i+1, doc.Title, doc.Origin, util.Truncate(doc.Description, contextLen))
			sources = append(sources, api.Source{
				Type:           "documentation",
				Title:          doc.Title,
				Snippet:        util.Truncate(doc.Description, snippetLen),
				URL:            doc.URL,
				Origin:         doc.Origin,
				RelevanceScore: doc.Score,
			})
		}
	}

	if detected == intent.IdeaValidation {
		projects, err := s.searcher.Search(ctx, message, api.ModeHybrid, api.IndexProjects, contextProjects)
		if err != nil {
			slog.Warn("project search failed", "error", err)
		}
		if len(projects) > 0 {
			b.WriteString("\nSimilar hackathon projects:\n")
			for i, project := range projects {
				fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, project.Title, util.Truncate(project.Description, contextLen))
				sources = append(sources, api.Source{
					Type:           "devpost_project",
					Title:          project.Title,
					Snippet:        util.Truncate(project.Description, snippetLen),
					URL:            project.URL,
					Origin:         project.Origin,
					RelevanceScore: project.Score,
				})
			}
		}
	}

	if detected == intent.Progress && repoURL != "" {
		activity, err := s.analyzer.Activity(ctx, repoURL, activityDays)
		if err != nil {
			slog.Warn("repository activity fetch failed", "repo", repoURL, "error", err)
		}
		if len(activity) > 0 {
			b.WriteString("\nRecent GitHub activity:\n")
			for i, item := range activity {
				if i >= 5 {
					break
				}
				fmt.Fprintf(&b, "- %s: %s\n", item.Type, util.Truncate(item.Message, 100))
			}
		}
	}

	return b.String(), sources
}

var intentSuggestions = map[intent.Intent][]string{
	intent.IdeaValidation: {
		"How can I make my idea more unique?",
		"What technical challenges should I expect?",
		"What technologies would work best?",
		"How do I validate this with users?",
	},
	intent.Progress: {
		"What should we focus on next?",
		"Are we on track for the deadline?",
		"How can we improve our velocity?",
		"What blockers should we address?",
	},
	intent.Documentation: {
		"Show me examples of this implementation",
		"What are the best practices?",
		"Are there any limitations I should know?",
		"How do I troubleshoot common issues?",
	},
}

func followUpSuggestions(detected intent.Intent) []string {
	if suggestions, ok := intentSuggestions[detected]; ok {
		return suggestions
	}
	return []string{
		"Can you help me validate my project idea?",
		"What's our current development progress?",
		"How do I implement hybrid search?",
		"What are the hackathon submission requirements?",
	}
}
