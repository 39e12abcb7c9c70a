package github

import (
	"testing"

	"github.com/akontos/hackmate/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		name  string
	}{
		{"https://github.com/octo/hello", "octo", "hello"},
		{"https://github.com/octo/hello.git", "octo", "hello"},
		{"https://github.com/octo/hello/", "octo", "hello"},
		{"octo/hello", "octo", "hello"},
		{"git@github.com:octo/hello.git", "octo", "hello"},
	}
	for _, tc := range tests {
		owner, name, err := ParseRepoURL(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.owner, owner, tc.url)
		assert.Equal(t, tc.name, name, tc.url)
	}

	for _, bad := range []string{"", "justaname", "https://github.com//"} {
		_, _, err := ParseRepoURL(bad)
		assert.Error(t, err, bad)
	}
}

func commit(message, author, timestamp string, files ...string) api.ActivityItem {
	return api.ActivityItem{Type: "commit", Message: message, Author: author, Timestamp: timestamp, Files: files}
}

func TestCategorizeMessages(t *testing.T) {
	commits := []api.ActivityItem{
		commit("feat: add search endpoint", "a", ""),
		commit("fix crash on empty query", "a", ""),
		commit("refactor engine internals", "a", ""),
		commit("update README", "a", ""),
		commit("format with gofmt", "a", ""),
		commit("add tests for webhook", "a", ""),
		commit("misc housekeeping", "a", ""),
	}

	got := categorizeMessages(commits)
	assert.Equal(t, 2, got["feature"]) // "add tests" matches "add" before "test"
	assert.Equal(t, 1, got["fix"])
	assert.Equal(t, 1, got["refactor"])
	assert.Equal(t, 1, got["docs"])
	assert.Equal(t, 1, got["style"])
	assert.Equal(t, 0, got["test"])
}

func TestAnalyzeCommits(t *testing.T) {
	activity := []api.ActivityItem{
		commit("feat: one", "alice", "2025-06-01T10:00:00Z"),
		commit("feat: two", "alice", "2025-06-01T12:00:00Z"),
		commit("fix: three", "bob", "2025-06-02T09:00:00Z"),
		{Type: "issue", Message: "Issue: broken", Author: "carol", Timestamp: "2025-06-02T10:00:00Z"},
	}

	got := analyzeCommits(activity)
	assert.Equal(t, 3, got.TotalCommits)
	assert.Equal(t, map[string]int{"2025-06-01": 2, "2025-06-02": 1}, got.CommitFrequency)
	assert.InDelta(t, 1.5, got.AveragePerDay, 1e-9)
	assert.Equal(t, "alice", got.MostActiveAuthor)

	assert.Zero(t, analyzeCommits(nil).TotalCommits)
}

func TestAnalyzeFileChanges(t *testing.T) {
	activity := []api.ActivityItem{
		commit("a", "x", "", "main.go", "server.go"),
		commit("b", "x", "", "main.go", "README.md"),
	}

	got := analyzeFileChanges(activity)
	assert.Equal(t, 3, got.TotalFilesChanged)
	require.NotEmpty(t, got.MostChangedFiles)
	assert.Equal(t, api.FileChange{Path: "main.go", Count: 2}, got.MostChangedFiles[0])
	assert.Equal(t, "Backend Development", got.DevelopmentFocus)
	assert.Equal(t, map[string]int{"go": 3, "md": 1}, got.FileTypes)
}

func TestDevelopmentFocus(t *testing.T) {
	assert.Equal(t, "Unknown", developmentFocus(nil))
	assert.Equal(t, "Frontend Development", developmentFocus(map[string]int{"tsx": 5, "go": 2}))
	assert.Equal(t, "Documentation", developmentFocus(map[string]int{"md": 3}))
	assert.Equal(t, "General Development", developmentFocus(map[string]int{"rs": 4}))
}

func TestProgressMetrics(t *testing.T) {
	var activity []api.ActivityItem
	for i := 0; i < 12; i++ {
		activity = append(activity, commit("feat", "a", ""))
	}
	activity = append(activity, api.ActivityItem{Type: "issue"})

	stats := api.RepoStats{Contributors: []api.Contributor{{Login: "a"}, {Login: "b"}}}
	got := progressMetrics(activity, stats)
	assert.Equal(t, 13, got.ActivityScore)
	assert.Equal(t, 12, got.CommitVelocity)
	assert.Equal(t, 1, got.IssueActivity)
	assert.Equal(t, 2, got.ContributorCount)
	assert.Equal(t, "High", got.DevelopmentIntensity)
	assert.Equal(t, "Developing", got.ProjectMaturity)

	low := progressMetrics(activity[:3], api.RepoStats{})
	assert.Equal(t, "Low", low.DevelopmentIntensity)
	assert.Equal(t, "Early Stage", low.ProjectMaturity)

	medium := progressMetrics(activity[:7], api.RepoStats{
		Contributors: []api.Contributor{{}, {}, {}},
		Releases:     []api.Release{{Tag: "v1"}},
	})
	assert.Equal(t, "Medium", medium.DevelopmentIntensity)
	assert.Equal(t, "Mature", medium.ProjectMaturity)
}

func TestRecommendations(t *testing.T) {
	got := recommendations(nil, api.RepoStats{Contributors: []api.Contributor{{Login: "solo"}}, OpenIssues: 11})
	assert.Contains(t, got, "Consider increasing commit frequency for better progress tracking")
	assert.Contains(t, got, "Consider creating releases to mark project milestones")
	assert.Contains(t, got, "Encourage team collaboration with more contributors")
	assert.Contains(t, got, "Focus on resolving open issues to maintain project health")

	var busy []api.ActivityItem
	for i := 0; i < 6; i++ {
		busy = append(busy, commit("feat", "a", ""))
	}
	quietStats := api.RepoStats{
		Contributors: []api.Contributor{{}, {}},
		Releases:     []api.Release{{Tag: "v1"}},
	}
	assert.Empty(t, recommendations(busy, quietStats))
}
