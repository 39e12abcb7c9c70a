package github

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/akontos/hackmate/internal/api"
	"github.com/pkg/errors"
)

const (
	activityDays    = 7
	maxActivity     = 20
	reportActivity  = 5
	maxFileFetches  = 20
	maxReleases     = 3
	topChangedFiles = 5
)

// ParseRepoURL extracts owner and repository name from a GitHub URL or an
// "owner/repo" shorthand.
func ParseRepoURL(repoURL string) (string, string, error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	trimmed = strings.TrimSuffix(trimmed, "/")
	// ssh form: git@github.com:owner/repo
	trimmed = strings.Replace(trimmed, "github.com:", "github.com/", 1)

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", errors.Errorf("cannot parse repository URL: %s", repoURL)
	}
	owner := parts[len(parts)-2]
	name := strings.TrimSuffix(parts[len(parts)-1], ".git")
	if owner == "" || name == "" {
		return "", "", errors.Errorf("cannot parse repository URL: %s", repoURL)
	}
	return owner, name, nil
}

// Activity returns the repository's commits and issues of the last `days`
// days, newest first, capped at 20 items. File lists are fetched for the
// most recent commits only.
func (c *Client) Activity(ctx context.Context, repoURL string, days int) ([]api.ActivityItem, error) {
	owner, name, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = activityDays
	}
	since := time.Now().AddDate(0, 0, -days)

	commits, err := c.commits(ctx, owner, name, since)
	if err != nil {
		return nil, err
	}

	var activity []api.ActivityItem
	for i, commit := range commits {
		item := api.ActivityItem{
			Type:      "commit",
			Message:   commit.Commit.Message,
			Author:    commit.Commit.Author.Name,
			Timestamp: commit.Commit.Author.Date,
			SHA:       commit.SHA,
			URL:       commit.HTMLURL,
		}
		if i < maxFileFetches {
			detail, err := c.commitDetail(ctx, owner, name, commit.SHA)
			if err != nil {
				slog.Warn("commit detail fetch failed", "sha", commit.SHA, "error", err)
			} else {
				for _, f := range detail.Files {
					item.Files = append(item.Files, f.Filename)
				}
			}
		}
		activity = append(activity, item)
	}

	issues, err := c.issues(ctx, owner, name, since)
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		item := api.ActivityItem{
			Type:      "issue",
			Message:   "Issue: " + issue.Title,
			Author:    issue.User.Login,
			Timestamp: issue.CreatedAt,
			State:     issue.State,
			URL:       issue.HTMLURL,
		}
		for _, label := range issue.Labels {
			item.Labels = append(item.Labels, label.Name)
		}
		activity = append(activity, item)
	}

	sort.Slice(activity, func(i, j int) bool {
		return activity[i].Timestamp > activity[j].Timestamp
	})
	if len(activity) > maxActivity {
		activity = activity[:maxActivity]
	}
	return activity, nil
}

// Stats returns repository statistics: stars, languages, contributors, and
// the most recent releases.
func (c *Client) Stats(ctx context.Context, repoURL string) (api.RepoStats, error) {
	owner, name, err := ParseRepoURL(repoURL)
	if err != nil {
		return api.RepoStats{}, err
	}

	info, err := c.repo(ctx, owner, name)
	if err != nil {
		return api.RepoStats{}, err
	}

	stats := api.RepoStats{
		Name:          info.Name,
		Description:   info.Description,
		Stars:         info.StargazersCount,
		Forks:         info.ForksCount,
		OpenIssues:    info.OpenIssuesCount,
		CreatedAt:     info.CreatedAt,
		UpdatedAt:     info.UpdatedAt,
		DefaultBranch: info.DefaultBranch,
	}

	if langs, err := c.languages(ctx, owner, name); err != nil {
		slog.Warn("languages fetch failed", "repo", repoURL, "error", err)
	} else {
		stats.Languages = langs
	}

	if contributors, err := c.contributors(ctx, owner, name); err != nil {
		slog.Warn("contributors fetch failed", "repo", repoURL, "error", err)
	} else {
		for _, contributor := range contributors {
			stats.Contributors = append(stats.Contributors, api.Contributor{
				Login:         contributor.Login,
				Contributions: contributor.Contributions,
				AvatarURL:     contributor.AvatarURL,
			})
		}
	}

	if releases, err := c.releases(ctx, owner, name); err != nil {
		slog.Warn("releases fetch failed", "repo", repoURL, "error", err)
	} else {
		for i, release := range releases {
			if i >= maxReleases {
				break
			}
			title := release.Name
			if title == "" {
				title = release.TagName
			}
			stats.Releases = append(stats.Releases, api.Release{
				Name:        title,
				Tag:         release.TagName,
				PublishedAt: release.PublishedAt,
				URL:         release.HTMLURL,
			})
		}
	}

	return stats, nil
}

// AnalyzeProgress builds the full progress report for a repository.
func (c *Client) AnalyzeProgress(ctx context.Context, repoURL string) (api.ProgressReport, error) {
	activity, err := c.Activity(ctx, repoURL, activityDays)
	if err != nil {
		return api.ProgressReport{}, err
	}
	stats, err := c.Stats(ctx, repoURL)
	if err != nil {
		return api.ProgressReport{}, err
	}

	recent := activity
	if len(recent) > reportActivity {
		recent = recent[:reportActivity]
	}

	return api.ProgressReport{
		Repository:      stats.Name,
		AnalysisPeriod:  fmt.Sprintf("Last %d days", activityDays),
		CommitAnalysis:  analyzeCommits(activity),
		FileAnalysis:    analyzeFileChanges(activity),
		ProgressMetrics: progressMetrics(activity, stats),
		RecentActivity:  recent,
		Recommendations: recommendations(activity, stats),
	}, nil
}

func commitsOf(activity []api.ActivityItem) []api.ActivityItem {
	var commits []api.ActivityItem
	for _, item := range activity {
		if item.Type == "commit" {
			commits = append(commits, item)
		}
	}
	return commits
}

func analyzeCommits(activity []api.ActivityItem) api.CommitAnalysis {
	commits := commitsOf(activity)
	if len(commits) == 0 {
		return api.CommitAnalysis{}
	}

	frequency := make(map[string]int)
	for _, commit := range commits {
		day := commit.Timestamp
		if len(day) >= 10 {
			day = day[:10] // YYYY-MM-DD
		}
		frequency[day]++
	}

	days := len(frequency)
	if days == 0 {
		days = 1
	}

	return api.CommitAnalysis{
		TotalCommits:     len(commits),
		CommitFrequency:  frequency,
		AveragePerDay:    float64(len(commits)) / float64(days),
		MessageBreakdown: categorizeMessages(commits),
		MostActiveAuthor: mostActiveAuthor(commits),
	}
}

// messageCategories maps commit-message keywords to a category. First match
// wins per message.
var messageCategories = []struct {
	name     string
	keywords []string
}{
	{"feature", []string{"feat", "feature", "add", "implement"}},
	{"fix", []string{"fix", "bug", "patch", "resolve"}},
	{"refactor", []string{"refactor", "clean", "improve", "optimize"}},
	{"docs", []string{"doc", "readme", "comment", "documentation"}},
	{"style", []string{"style", "format", "lint", "prettier"}},
	{"test", []string{"test", "spec", "coverage"}},
}

func categorizeMessages(commits []api.ActivityItem) map[string]int {
	categorized := make(map[string]int, len(messageCategories))
	for _, category := range messageCategories {
		categorized[category.name] = 0
	}

	for _, commit := range commits {
		lower := strings.ToLower(commit.Message)
		for _, category := range messageCategories {
			matched := false
			for _, keyword := range category.keywords {
				if strings.Contains(lower, keyword) {
					matched = true
					break
				}
			}
			if matched {
				categorized[category.name]++
				break
			}
		}
	}
	return categorized
}

func mostActiveAuthor(commits []api.ActivityItem) string {
	if len(commits) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, commit := range commits {
		counts[commit.Author]++
	}
	best, bestCount := "", 0
	for author, count := range counts {
		if count > bestCount || (count == bestCount && author < best) {
			best, bestCount = author, count
		}
	}
	return best
}

func analyzeFileChanges(activity []api.ActivityItem) api.FileAnalysis {
	commits := commitsOf(activity)

	fileChanges := make(map[string]int)
	fileTypes := make(map[string]int)
	for _, commit := range commits {
		for _, file := range commit.Files {
			fileChanges[file]++
			if dot := strings.LastIndex(file, "."); dot >= 0 && dot < len(file)-1 {
				ext := strings.ToLower(file[dot+1:])
				fileTypes[ext]++
			}
		}
	}

	changed := make([]api.FileChange, 0, len(fileChanges))
	for path, count := range fileChanges {
		changed = append(changed, api.FileChange{Path: path, Count: count})
	}
	sort.Slice(changed, func(i, j int) bool {
		if changed[i].Count != changed[j].Count {
			return changed[i].Count > changed[j].Count
		}
		return changed[i].Path < changed[j].Path
	})
	if len(changed) > topChangedFiles {
		changed = changed[:topChangedFiles]
	}

	return api.FileAnalysis{
		TotalFilesChanged: len(fileChanges),
		MostChangedFiles:  changed,
		FileTypes:         fileTypes,
		DevelopmentFocus:  developmentFocus(fileTypes),
	}
}

var focusByExtension = map[string]string{
	"py":   "Backend Development",
	"go":   "Backend Development",
	"js":   "Frontend Development",
	"ts":   "Frontend Development",
	"tsx":  "Frontend Development",
	"jsx":  "Frontend Development",
	"html": "Frontend Development",
	"css":  "Frontend Development",
	"scss": "Frontend Development",
	"md":   "Documentation",
	"yml":  "DevOps/Configuration",
	"yaml": "DevOps/Configuration",
	"json": "Configuration",
	"sql":  "Database Development",
}

func developmentFocus(fileTypes map[string]int) string {
	if len(fileTypes) == 0 {
		return "Unknown"
	}
	best, bestCount := "", 0
	for ext, count := range fileTypes {
		if count > bestCount || (count == bestCount && ext < best) {
			best, bestCount = ext, count
		}
	}
	if focus, ok := focusByExtension[best]; ok {
		return focus
	}
	return "General Development"
}

func progressMetrics(activity []api.ActivityItem, stats api.RepoStats) api.ProgressMetrics {
	commits := len(commitsOf(activity))
	issues := len(activity) - commits

	intensity := "Low"
	if commits > 10 {
		intensity = "High"
	} else if commits > 5 {
		intensity = "Medium"
	}

	return api.ProgressMetrics{
		ActivityScore:        len(activity),
		CommitVelocity:       commits,
		IssueActivity:        issues,
		ContributorCount:     len(stats.Contributors),
		ProjectMaturity:      projectMaturity(stats),
		DevelopmentIntensity: intensity,
	}
}

func projectMaturity(stats api.RepoStats) string {
	contributors := len(stats.Contributors)
	releases := len(stats.Releases)

	switch {
	case contributors >= 3 && releases >= 1:
		return "Mature"
	case contributors >= 2 || releases >= 1:
		return "Developing"
	default:
		return "Early Stage"
	}
}

func recommendations(activity []api.ActivityItem, stats api.RepoStats) []string {
	var recs []string

	if len(commitsOf(activity)) < 5 {
		recs = append(recs, "Consider increasing commit frequency for better progress tracking")
	}
	if len(stats.Releases) == 0 {
		recs = append(recs, "Consider creating releases to mark project milestones")
	}
	if len(stats.Contributors) == 1 {
		recs = append(recs, "Encourage team collaboration with more contributors")
	}
	if stats.OpenIssues > 10 {
		recs = append(recs, "Focus on resolving open issues to maintain project health")
	}
	return recs
}
