package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/data"
)

// historyWindow caps how many prior turns accompany a completion request.
const historyWindow = 5

// Service answers chat, validation, and generation requests. It talks to the
// configured model API when one is available and degrades to the offline
// Fallback when the client is absent or a call fails. fallbackActive latches
// once a call has failed so health reporting reflects reality.
type Service struct {
	client         *Client
	fallback       Fallback
	promptDir      string
	fallbackActive atomic.Bool
}

func NewService(client *Client, embeddingDimensions int, promptDir string) *Service {
	s := &Service{
		client:    client,
		fallback:  Fallback{EmbeddingDimensions: embeddingDimensions},
		promptDir: promptDir,
	}
	if client == nil {
		s.fallbackActive.Store(true)
	}
	return s
}

// Healthy reports whether the last model call succeeded against the real API.
func (s *Service) Healthy() bool {
	return !s.fallbackActive.Load()
}

func capHistory(history []api.HistoryEntry) []api.HistoryEntry {
	if len(history) > historyWindow {
		return history[len(history)-historyWindow:]
	}
	return history
}

// Respond produces an assistant reply for message, grounded in the retrieval
// context when one is supplied. History beyond the most recent turns is
// dropped before the request is built.
func (s *Service) Respond(ctx context.Context, message, retrievalContext string, history []api.HistoryEntry) string {
	if s.client == nil {
		return s.fallback.Respond(message, retrievalContext)
	}

	system := data.SystemPrompt
	if retrievalContext != "" {
		system = system + "\n\nRelevant context:\n" + retrievalContext
	}

	response, err := s.client.Complete(ctx, system, capHistory(history), message)
	if err != nil {
		slog.Warn("model completion failed, using offline response", "error", err)
		s.fallbackActive.Store(true)
		return s.fallback.Respond(message, retrievalContext)
	}
	s.fallbackActive.Store(false)
	return response
}

// Embed returns an embedding for text, deterministic in offline mode.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.client == nil {
		return s.fallback.Embed(text), nil
	}
	vector, err := s.client.Embed(ctx, text)
	if err != nil {
		slog.Warn("embedding request failed, using offline embedding", "error", err)
		s.fallbackActive.Store(true)
		return s.fallback.Embed(text), nil
	}
	return vector, nil
}

// FormatProjects renders similar-project search hits as model context.
func FormatProjects(results []api.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Similar past projects:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, r.Title, r.Description)
	}
	return b.String()
}

// FormatActivity renders recent repository activity as model context.
func FormatActivity(items []api.ActivityItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent repository activity:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", item.Type, item.Message, item.Author)
	}
	return b.String()
}

// ValidateIdea scores an idea against similar past projects.
func (s *Service) ValidateIdea(ctx context.Context, idea string, similar []api.SearchResult) (string, error) {
	prompt, err := LoadPrompt("idea_validation", s.promptDir)
	if err != nil {
		return "", err
	}
	system, user := prompt.Format(idea, FormatProjects(similar))

	if s.client == nil {
		return s.fallback.ideaValidation(idea, FormatProjects(similar)), nil
	}
	response, err := s.client.Complete(ctx, system, nil, user)
	if err != nil {
		slog.Warn("idea validation completion failed, using offline response", "error", err)
		s.fallbackActive.Store(true)
		return s.fallback.ideaValidation(idea, FormatProjects(similar)), nil
	}
	s.fallbackActive.Store(false)
	return response, nil
}

// ProgressSummary narrates recent repository activity.
func (s *Service) ProgressSummary(ctx context.Context, repoURL string, activity []api.ActivityItem) (string, error) {
	prompt, err := LoadPrompt("progress", s.promptDir)
	if err != nil {
		return "", err
	}
	system, user := prompt.Format(repoURL, FormatActivity(activity))

	if s.client == nil {
		return s.fallback.progress(), nil
	}
	response, err := s.client.Complete(ctx, system, nil, user)
	if err != nil {
		slog.Warn("progress completion failed, using offline response", "error", err)
		s.fallbackActive.Store(true)
		return s.fallback.progress(), nil
	}
	s.fallbackActive.Store(false)
	return response, nil
}

// GenerateDocument renders a named template (pitch, readme) against repoContext.
func (s *Service) GenerateDocument(ctx context.Context, template, repoContext string) (string, error) {
	prompt, err := LoadPrompt(template, s.promptDir)
	if err != nil {
		return "", err
	}
	system, user := prompt.Format("", repoContext)

	if s.client == nil {
		if template == "pitch" {
			return s.fallback.presentation(), nil
		}
		return s.fallback.general(user), nil
	}
	response, err := s.client.Complete(ctx, system, nil, user)
	if err != nil {
		slog.Warn("generation completion failed, using offline response", "error", err, "template", template)
		s.fallbackActive.Store(true)
		if template == "pitch" {
			return s.fallback.presentation(), nil
		}
		return s.fallback.general(user), nil
	}
	s.fallbackActive.Store(false)
	return response, nil
}
