package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/search"
	"github.com/pkg/errors"
)

// VerifySignature checks a webhook's X-Hub-Signature-256 header against the
// shared secret. Missing secret or header fails closed.
func VerifySignature(secret string, body []byte, signatureHeader string) bool {
	if secret == "" || signatureHeader == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

type webhookRepository struct {
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

type pushPayload struct {
	Repository webhookRepository `json:"repository"`
	Commits    []struct {
		ID        string `json:"id"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
		URL       string `json:"url"`
		Author    struct {
			Name string `json:"name"`
		} `json:"author"`
		Added    []string `json:"added"`
		Modified []string `json:"modified"`
		Removed  []string `json:"removed"`
	} `json:"commits"`
}

type issuePayload struct {
	Action     string            `json:"action"`
	Repository webhookRepository `json:"repository"`
	Issue      struct {
		ID        int64  `json:"id"`
		Number    int    `json:"number"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		State     string `json:"state"`
		HTMLURL   string `json:"html_url"`
		CreatedAt string `json:"created_at"`
		User      struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"issue"`
}

type pullRequestPayload struct {
	Action      string            `json:"action"`
	Repository  webhookRepository `json:"repository"`
	PullRequest struct {
		ID      int64  `json:"id"`
		Number  int    `json:"number"`
		Title   string `json:"title"`
		Body    string `json:"body"`
		State   string `json:"state"`
		HTMLURL string `json:"html_url"`
		User    struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"pull_request"`
}

func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now().UTC()
}

// WebhookDocuments converts a webhook event into activity documents for the
// search index. Unknown event types yield no documents and no error.
func WebhookDocuments(eventType string, body []byte) ([]search.Document, error) {
	switch eventType {
	case "push":
		var payload pushPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errors.Wrap(err, "decode push payload")
		}

		docs := make([]search.Document, 0, len(payload.Commits))
		for _, commit := range payload.Commits {
			changes := len(commit.Added) + len(commit.Modified) + len(commit.Removed)
			docs = append(docs, search.Document{
				ID:      "commit_" + commit.ID,
				Index:   api.IndexActivity,
				Title:   commit.Message,
				Content: fmt.Sprintf("Commit by %s in %s, %d files changed.\n%s", commit.Author.Name, payload.Repository.FullName, changes, commit.Message),
				URL:     commit.URL,
				Origin:  payload.Repository.FullName,
				Metadata: map[string]string{
					"type":   "commit",
					"author": commit.Author.Name,
				},
				CreatedAt: parseTimestamp(commit.Timestamp),
			})
		}
		return docs, nil

	case "issues":
		var payload issuePayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errors.Wrap(err, "decode issues payload")
		}

		return []search.Document{{
			ID:      fmt.Sprintf("issue_%d", payload.Issue.ID),
			Index:   api.IndexActivity,
			Title:   payload.Issue.Title,
			Content: payload.Issue.Body,
			URL:     payload.Issue.HTMLURL,
			Origin:  payload.Repository.FullName,
			Metadata: map[string]string{
				"type":   "issue",
				"action": payload.Action,
				"state":  payload.Issue.State,
				"author": payload.Issue.User.Login,
			},
			CreatedAt: parseTimestamp(payload.Issue.CreatedAt),
		}}, nil

	case "pull_request":
		var payload pullRequestPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, errors.Wrap(err, "decode pull_request payload")
		}

		return []search.Document{{
			ID:      fmt.Sprintf("pr_%d", payload.PullRequest.ID),
			Index:   api.IndexActivity,
			Title:   payload.PullRequest.Title,
			Content: payload.PullRequest.Body,
			URL:     payload.PullRequest.HTMLURL,
			Origin:  payload.Repository.FullName,
			Metadata: map[string]string{
				"type":   "pull_request",
				"action": payload.Action,
				"state":  payload.PullRequest.State,
				"author": payload.PullRequest.User.Login,
			},
			CreatedAt: time.Now().UTC(),
		}}, nil
	}

	return nil, nil
}
