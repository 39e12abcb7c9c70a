package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akontos/hackmate/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, api.ChatPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Message)
		require.Len(t, req.History, 1)
		assert.Equal(t, "assistant", req.History[0].Role)

		json.NewEncoder(w).Encode(api.ChatResponse{
			Response:    "hi there",
			Sources:     []api.Source{{Type: "project", Title: "EcoTrack"}},
			Suggestions: []string{"Tell me more"},
		})
	}))
	defer server.Close()

	c := New(server.URL, &http.Client{Timeout: 5 * time.Second})
	resp, err := c.SendMessage(context.Background(), api.ChatRequest{
		Message: "hello",
		History: []api.HistoryEntry{{Role: "assistant", Content: "welcome"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Response)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "EcoTrack", resp.Sources[0].Title)
}

func TestErrorStatusReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.SendMessage(context.Background(), api.ChatRequest{Message: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestTransportErrorReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c := New(server.URL, nil)
	_, err := c.Health(context.Background())
	assert.Error(t, err)
}

func TestMalformedBodyReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Health(context.Background())
	assert.Error(t, err)
}

func TestGetEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == api.SuggestionsPath:
			assert.Equal(t, "vector search", r.URL.Query().Get("q"))
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			json.NewEncoder(w).Encode(api.SuggestionsResponse{Suggestions: []string{"How to implement vector search"}})
		case r.URL.Path == api.ActivityPath+"/octo/hello":
			assert.Equal(t, "3", r.URL.Query().Get("days"))
			json.NewEncoder(w).Encode(api.ActivityResponse{Repository: "octo/hello", PeriodDays: 3})
		case r.URL.Path == api.StatsPath+"/octo/hello":
			json.NewEncoder(w).Encode(api.RepoStats{Name: "hello", Stars: 7})
		case r.URL.Path == api.HealthPath:
			json.NewEncoder(w).Encode(api.HealthResponse{Status: "healthy"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(server.URL, nil)
	ctx := context.Background()

	suggestions, err := c.Suggest(ctx, "vector search", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions.Suggestions)

	activity, err := c.RepoActivity(ctx, "octo", "hello", 3)
	require.NoError(t, err)
	assert.Equal(t, "octo/hello", activity.Repository)

	stats, err := c.RepoStats(ctx, "octo", "hello")
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Stars)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
}

func TestPostEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var repo api.RepoRequest
		switch r.URL.Path {
		case api.ValidateIdeaPath:
			var req api.ChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "a carbon tracker", req.Message)
			json.NewEncoder(w).Encode(api.ChatResponse{Response: "validated"})
		case api.ProgressReportPath:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&repo))
			assert.Equal(t, "https://github.com/octo/hello", repo.RepoURL)
			json.NewEncoder(w).Encode(api.ChatResponse{Response: "progress"})
		case api.AnalyzePath:
			json.NewEncoder(w).Encode(api.ProgressReport{Repository: "hello"})
		case api.PitchPath:
			json.NewEncoder(w).Encode(api.Document{Kind: "pitch", Content: "deck"})
		case api.ReadmePath:
			json.NewEncoder(w).Encode(api.Document{Kind: "readme", Content: "# hello"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(server.URL, nil)
	ctx := context.Background()
	repoURL := "https://github.com/octo/hello"

	validation, err := c.ValidateIdea(ctx, "a carbon tracker", "")
	require.NoError(t, err)
	assert.Equal(t, "validated", validation.Response)

	progress, err := c.ProgressReport(ctx, repoURL)
	require.NoError(t, err)
	assert.Equal(t, "progress", progress.Response)

	report, err := c.AnalyzeRepo(ctx, repoURL)
	require.NoError(t, err)
	assert.Equal(t, "hello", report.Repository)

	pitch, err := c.GeneratePitch(ctx, repoURL)
	require.NoError(t, err)
	assert.Equal(t, "pitch", pitch.Kind)

	readme, err := c.GenerateReadme(ctx, repoURL)
	require.NoError(t, err)
	assert.Equal(t, "readme", readme.Kind)
}
