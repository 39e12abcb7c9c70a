package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/akontos/hackmate/internal/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend records calls and returns a scripted response.
type stubBackend struct {
	mu       sync.Mutex
	calls    []string
	requests []api.ChatRequest
	resp     api.ChatResponse
	err      error
	block    chan struct{} // when set, SendMessage waits until closed
}

func (b *stubBackend) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *stubBackend) SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	b.record("chat")
	b.mu.Lock()
	b.requests = append(b.requests, req)
	block := b.block
	b.mu.Unlock()
	if block != nil {
		<-block
	}
	return b.resp, b.err
}

func (b *stubBackend) ValidateIdea(ctx context.Context, idea, repoURL string) (api.ChatResponse, error) {
	b.record("validate")
	return b.resp, b.err
}

func (b *stubBackend) ProgressReport(ctx context.Context, repoURL string) (api.ChatResponse, error) {
	b.record("progress")
	return b.resp, b.err
}

func TestSessionStartsWithWelcome(t *testing.T) {
	s := NewSession(&stubBackend{})

	messages := s.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, RoleAssistant, messages[0].Role)
	assert.Equal(t, WelcomeText, messages[0].Content)
	assert.False(t, s.Busy())
	assert.NotEmpty(t, s.ConversationID())
}

func TestSendAppendsUserAndAssistant(t *testing.T) {
	backend := &stubBackend{resp: api.ChatResponse{
		Response:    "here is an answer",
		Sources:     []api.Source{{Type: "project", Title: "A"}, {Type: "doc", Title: "B"}, {Type: "doc", Title: "C"}},
		Suggestions: []string{"follow up"},
	}}
	s := NewSession(backend)

	require.NoError(t, s.Send(context.Background(), "what is hybrid search"))

	messages := s.Messages()
	require.Len(t, messages, 3) // welcome, user, assistant
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "what is hybrid search", messages[1].Content)
	assert.Equal(t, RoleAssistant, messages[2].Role)
	assert.Equal(t, "here is an answer", messages[2].Content)

	// Citations keep count and server order.
	require.Len(t, messages[2].Sources, 3)
	assert.Equal(t, "A", messages[2].Sources[0].Title)
	assert.Equal(t, "B", messages[2].Sources[1].Title)
	assert.Equal(t, "C", messages[2].Sources[2].Title)

	assert.Equal(t, []string{"follow up"}, s.Suggestions())
	assert.False(t, s.Busy())
}

func TestSendFailureAppendsExactlyOneErrorMessage(t *testing.T) {
	backend := &stubBackend{err: errors.New("connection refused")}
	s := NewSession(backend)

	require.NoError(t, s.Send(context.Background(), "hello"))

	messages := s.Messages()
	require.Len(t, messages, 3)

	var errorMessages []Message
	for _, m := range messages {
		if m.IsError {
			errorMessages = append(errorMessages, m)
		}
	}
	require.Len(t, errorMessages, 1)
	assert.Equal(t, errorText, errorMessages[0].Content)
	assert.Equal(t, RoleAssistant, errorMessages[0].Role)

	// No retry: one backend call total.
	assert.Len(t, backend.calls, 1)

	// The next turn works again.
	backend.err = nil
	backend.resp = api.ChatResponse{Response: "recovered"}
	require.NoError(t, s.Send(context.Background(), "hello again"))
	messages = s.Messages()
	assert.Equal(t, "recovered", messages[len(messages)-1].Content)
}

func TestSendRefusedWhileBusy(t *testing.T) {
	backend := &stubBackend{block: make(chan struct{}), resp: api.ChatResponse{Response: "ok"}}
	s := NewSession(backend)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- s.Send(context.Background(), "first")
	}()
	<-started

	// Wait until the first send is inside the backend call.
	require.Eventually(t, s.Busy, time.Second, time.Millisecond)

	err := s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(backend.block)
	require.NoError(t, <-done)

	// Only the first message went through.
	assert.Equal(t, []string{"chat"}, backend.calls)
	messages := s.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[1].Content)
}

func TestSendTruncatesHistory(t *testing.T) {
	backend := &stubBackend{resp: api.ChatResponse{Response: "ok"}}
	s := NewSession(backend)

	for i := 0; i < 6; i++ {
		require.NoError(t, s.Send(context.Background(), fmt.Sprintf("message %d", i)))
	}

	last := backend.requests[len(backend.requests)-1]
	assert.Len(t, last.History, historyWindow)
}

func TestIntentRouting(t *testing.T) {
	backend := &stubBackend{resp: api.ChatResponse{Response: "ok"}}
	s := NewSession(backend)
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, "validate my idea"))
	assert.Equal(t, "validate", backend.calls[len(backend.calls)-1])

	// Progress without a linked repository falls through to plain chat.
	require.NoError(t, s.Send(ctx, "how is my progress"))
	assert.Equal(t, "chat", backend.calls[len(backend.calls)-1])

	s.SetRepoURL("https://github.com/octo/hello")
	require.NoError(t, s.Send(ctx, "how is my progress"))
	assert.Equal(t, "progress", backend.calls[len(backend.calls)-1])

	require.NoError(t, s.Send(ctx, "hello there"))
	assert.Equal(t, "chat", backend.calls[len(backend.calls)-1])
}

func TestResetRestoresWelcome(t *testing.T) {
	backend := &stubBackend{resp: api.ChatResponse{Response: "ok", Suggestions: []string{"next"}}}
	s := NewSession(backend)

	require.NoError(t, s.Send(context.Background(), "hello"))
	require.NotEmpty(t, s.Suggestions())
	oldID := s.ConversationID()

	require.NoError(t, s.Reset())

	messages := s.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, WelcomeText, messages[0].Content)
	assert.Empty(t, s.Suggestions())
	assert.NotEqual(t, oldID, s.ConversationID())
}

func TestObserversNotified(t *testing.T) {
	backend := &stubBackend{resp: api.ChatResponse{Response: "ok"}}
	s := NewSession(backend)

	var notifications int
	s.Subscribe(func() { notifications++ })

	require.NoError(t, s.Send(context.Background(), "hello"))
	assert.Equal(t, 2, notifications) // user append, assistant append

	require.NoError(t, s.Reset())
	assert.Equal(t, 3, notifications)
}

func TestSendEmptyMessage(t *testing.T) {
	s := NewSession(&stubBackend{})
	assert.Error(t, s.Send(context.Background(), ""))
	assert.Len(t, s.Messages(), 1)
}
