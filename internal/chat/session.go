package chat

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/intent"
	"github.com/pkg/errors"
)

// historyWindow is how many prior turns accompany an outbound request.
const historyWindow = 5

// WelcomeText opens every fresh conversation.
const WelcomeText = "Hi! I'm your hackathon assistant. I can validate ideas against past projects, answer technical questions, track your GitHub progress, and help with your pitch. What are you working on?"

// errorText is the single message shown for any failed round trip. All
// failure modes collapse into it; details go to the log only.
const errorText = "Sorry, something went wrong while answering. Please try again."

// ErrBusy is returned when a send is refused because one is outstanding.
var ErrBusy = errors.New("a message is already being processed")

// Backend is the API surface the session needs. *client.Client satisfies it.
type Backend interface {
	SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error)
	ValidateIdea(ctx context.Context, idea, repoURL string) (api.ChatResponse, error)
	ProgressReport(ctx context.Context, repoURL string) (api.ChatResponse, error)
}

// Session orchestrates chat round trips: one outstanding request at a time,
// guarded by an atomic busy flag, no retries, no cancellation of in-flight
// work. Registered observers run after every state change.
type Session struct {
	backend Backend

	busy atomic.Bool

	mu           sync.Mutex
	conversation *Conversation
	suggestions  []string
	repoURL      string
	observers    []func()
}

func NewSession(backend Backend) *Session {
	s := &Session{backend: backend}
	s.conversation = welcomeConversation()
	return s
}

func welcomeConversation() *Conversation {
	c := NewConversation()
	c.Append(NewAssistantMessage(WelcomeText, nil))
	return c
}

// Subscribe registers an observer invoked after every conversation change.
// Not safe to call concurrently with Send.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// SetRepoURL links a repository for progress questions.
func (s *Session) SetRepoURL(repoURL string) {
	s.mu.Lock()
	s.repoURL = repoURL
	s.mu.Unlock()
}

func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Messages()
}

func (s *Session) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.ID
}

// Busy reports whether a round trip is outstanding.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Reset replaces the conversation with a fresh welcome message and clears
// suggestions. Refused while a request is outstanding.
func (s *Session) Reset() error {
	if s.busy.Load() {
		return ErrBusy
	}

	s.mu.Lock()
	s.conversation = welcomeConversation()
	s.suggestions = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// Send runs one chat round trip. The user message is appended first; on
// success exactly one assistant message with the response, its citations in
// server order, and fresh suggestions; on any failure exactly one assistant
// error message with the fixed text. A second Send while one is outstanding
// returns ErrBusy without touching the conversation.
func (s *Session) Send(ctx context.Context, text string) error {
	if text == "" {
		return errors.New("empty message")
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	history := s.conversation.History()
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	repoURL := s.repoURL
	s.conversation.Append(NewUserMessage(text))
	s.mu.Unlock()
	s.notify()

	resp, err := s.dispatch(ctx, text, history, repoURL)

	s.mu.Lock()
	if err != nil {
		slog.Error("chat round trip failed", "error", err)
		s.conversation.Append(newErrorMessage(errorText))
	} else {
		s.conversation.Append(NewAssistantMessage(resp.Response, resp.Sources))
		s.suggestions = resp.Suggestions
	}
	s.mu.Unlock()
	s.notify()

	return nil
}

// dispatch picks the endpoint by intent: idea validation goes to the
// dedicated route, progress questions go to the report route when a
// repository is linked, everything else is a plain chat turn.
func (s *Session) dispatch(ctx context.Context, text string, history []api.HistoryEntry, repoURL string) (api.ChatResponse, error) {
	detected := intent.Classify(text)

	switch {
	case detected == intent.IdeaValidation:
		return s.backend.ValidateIdea(ctx, text, repoURL)
	case detected == intent.Progress && repoURL != "":
		return s.backend.ProgressReport(ctx, repoURL)
	default:
		return s.backend.SendMessage(ctx, api.ChatRequest{
			Message: text,
			History: history,
			RepoURL: repoURL,
			Intent:  string(detected),
		})
	}
}
