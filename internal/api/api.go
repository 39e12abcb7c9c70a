// Package api holds the JSON wire types and route paths shared by the
// server, the Go client, and the CLI.
package api

const (
	V1Prefix = "/api/v1"

	ChatPath           = V1Prefix + "/chat"
	ValidateIdeaPath   = V1Prefix + "/chat/validate-idea"
	ProgressReportPath = V1Prefix + "/chat/progress-report"
	SearchPath         = V1Prefix + "/search"
	SearchProjectsPath = V1Prefix + "/search/projects"
	SearchDocsPath     = V1Prefix + "/search/docs"
	SuggestionsPath    = V1Prefix + "/search/suggestions"
	AnalyzePath        = V1Prefix + "/github/analyze"
	ActivityPath       = V1Prefix + "/github/activity"
	StatsPath          = V1Prefix + "/github/stats"
	PitchPath          = V1Prefix + "/github/pitch"
	ReadmePath         = V1Prefix + "/github/readme"
	WebhookPath        = V1Prefix + "/webhooks/github"
	HealthPath         = V1Prefix + "/health"
	DocViewPrefix      = "/docs"
)

// Search modes accepted by the search endpoints.
const (
	ModeHybrid   = "hybrid"
	ModeSemantic = "semantic"
	ModeKeyword  = "keyword"
)

// Index names the search engine knows about.
const (
	IndexProjects = "projects"
	IndexDocs     = "docs"
	IndexActivity = "activity"
)

// HistoryEntry is a single prior turn sent along with a chat request.
type HistoryEntry struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string         `json:"message"`
	History []HistoryEntry `json:"conversation_history,omitempty"`
	RepoURL string         `json:"repo_url,omitempty"`
	Intent  string         `json:"context_type,omitempty"`
}

// Source is a citation attached to an assistant reply. Immutable once
// attached; order is meaningful and preserved end to end.
type Source struct {
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Snippet        string  `json:"snippet,omitempty"`
	URL            string  `json:"url,omitempty"`
	Origin         string  `json:"source,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

type ChatResponse struct {
	Response       string   `json:"response"`
	Sources        []Source `json:"sources,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
	ConversationID string   `json:"conversation_id,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Mode  string `json:"search_type,omitempty"` // hybrid (default), semantic, keyword
	Index string `json:"index,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type SearchResult struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	URL         string            `json:"url,omitempty"`
	Score       float64           `json:"score"`
	Origin      string            `json:"source"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Query   string         `json:"query"`
	Mode    string         `json:"search_type"`
	TookMS  int64          `json:"took_ms,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Query       string   `json:"query"`
}

type RepoRequest struct {
	RepoURL string `json:"repo_url"`
}

// ProgressReport is the structured result of analyzing a repository.
type ProgressReport struct {
	Repository      string          `json:"repository"`
	AnalysisPeriod  string          `json:"analysis_period"`
	CommitAnalysis  CommitAnalysis  `json:"commit_analysis"`
	FileAnalysis    FileAnalysis    `json:"file_analysis"`
	ProgressMetrics ProgressMetrics `json:"progress_metrics"`
	RecentActivity  []ActivityItem  `json:"recent_activity"`
	Recommendations []string        `json:"recommendations"`
}

type CommitAnalysis struct {
	TotalCommits     int            `json:"total_commits"`
	CommitFrequency  map[string]int `json:"commit_frequency,omitempty"` // day -> count
	AveragePerDay    float64        `json:"average_per_day"`
	MessageBreakdown map[string]int `json:"message_analysis,omitempty"`
	MostActiveAuthor string         `json:"most_active_author,omitempty"`
}

type FileAnalysis struct {
	TotalFilesChanged int            `json:"total_files_changed"`
	MostChangedFiles  []FileChange   `json:"most_changed_files,omitempty"`
	FileTypes         map[string]int `json:"file_types,omitempty"`
	DevelopmentFocus  string         `json:"development_focus"`
}

type FileChange struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

type ProgressMetrics struct {
	ActivityScore        int    `json:"activity_score"`
	CommitVelocity       int    `json:"commit_velocity"`
	IssueActivity        int    `json:"issue_activity"`
	ContributorCount     int    `json:"contributor_count"`
	ProjectMaturity      string `json:"project_maturity"`
	DevelopmentIntensity string `json:"development_intensity"`
}

// ActivityItem is one commit or issue event in a repository's recent history.
type ActivityItem struct {
	Type      string   `json:"type"` // "commit" or "issue"
	Message   string   `json:"message"`
	Author    string   `json:"author"`
	Timestamp string   `json:"timestamp"`
	SHA       string   `json:"sha,omitempty"`
	State     string   `json:"state,omitempty"`
	URL       string   `json:"url,omitempty"`
	Files     []string `json:"files,omitempty"`
	Labels    []string `json:"labels,omitempty"`
}

type ActivityResponse struct {
	Repository      string         `json:"repository"`
	PeriodDays      int            `json:"period_days"`
	Activity        []ActivityItem `json:"activity"`
	TotalActivities int            `json:"total_activities"`
}

type RepoStats struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Stars         int            `json:"stars"`
	Forks         int            `json:"forks"`
	OpenIssues    int            `json:"open_issues"`
	Languages     map[string]int `json:"languages,omitempty"`
	Contributors  []Contributor  `json:"contributors,omitempty"`
	Releases      []Release      `json:"recent_releases,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
	DefaultBranch string         `json:"default_branch,omitempty"`
}

type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url,omitempty"`
}

type Release struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	PublishedAt string `json:"published_at,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Document is a generated pitch deck or README.
type Document struct {
	Repository string `json:"repository"`
	Kind       string `json:"kind"` // "pitch" or "readme"
	Content    string `json:"content"`
}

type HealthResponse struct {
	Status   string            `json:"status"` // healthy | degraded
	Services map[string]string `json:"services"`
	Details  map[string]string `json:"details,omitempty"`
}
