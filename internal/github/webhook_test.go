package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/akontos/hackmate/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"action":"opened"}`)

	assert.True(t, VerifySignature("s3cret", body, sign("s3cret", body)))
	assert.False(t, VerifySignature("s3cret", body, sign("wrong", body)))
	assert.False(t, VerifySignature("s3cret", []byte("tampered"), sign("s3cret", body)))
	assert.False(t, VerifySignature("", body, sign("s3cret", body)))
	assert.False(t, VerifySignature("s3cret", body, ""))
}

func TestWebhookDocumentsPush(t *testing.T) {
	body := []byte(`{
		"repository": {"full_name": "octo/hello", "html_url": "https://github.com/octo/hello"},
		"commits": [
			{
				"id": "abc123",
				"message": "feat: add search",
				"timestamp": "2025-06-01T10:00:00Z",
				"url": "https://github.com/octo/hello/commit/abc123",
				"author": {"name": "alice"},
				"added": ["search.go"],
				"modified": ["main.go"],
				"removed": []
			}
		]
	}`)

	docs, err := WebhookDocuments("push", body)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "commit_abc123", doc.ID)
	assert.Equal(t, api.IndexActivity, doc.Index)
	assert.Equal(t, "feat: add search", doc.Title)
	assert.Contains(t, doc.Content, "alice")
	assert.Contains(t, doc.Content, "2 files changed")
	assert.Equal(t, "octo/hello", doc.Origin)
	assert.Equal(t, "commit", doc.Metadata["type"])
	assert.Equal(t, 2025, doc.CreatedAt.Year())
}

func TestWebhookDocumentsIssue(t *testing.T) {
	body := []byte(`{
		"action": "opened",
		"repository": {"full_name": "octo/hello"},
		"issue": {
			"id": 42,
			"number": 7,
			"title": "Crash on empty query",
			"body": "Steps to reproduce...",
			"state": "open",
			"html_url": "https://github.com/octo/hello/issues/7",
			"created_at": "2025-06-02T08:00:00Z",
			"user": {"login": "bob"}
		}
	}`)

	docs, err := WebhookDocuments("issues", body)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "issue_42", docs[0].ID)
	assert.Equal(t, "Crash on empty query", docs[0].Title)
	assert.Equal(t, "opened", docs[0].Metadata["action"])
	assert.Equal(t, "bob", docs[0].Metadata["author"])
}

func TestWebhookDocumentsPullRequest(t *testing.T) {
	body := []byte(`{
		"action": "closed",
		"repository": {"full_name": "octo/hello"},
		"pull_request": {
			"id": 99,
			"number": 12,
			"title": "Add webhook endpoint",
			"state": "closed",
			"html_url": "https://github.com/octo/hello/pull/12",
			"user": {"login": "carol"}
		}
	}`)

	docs, err := WebhookDocuments("pull_request", body)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "pr_99", docs[0].ID)
	assert.Equal(t, "pull_request", docs[0].Metadata["type"])
}

func TestWebhookDocumentsUnknownEvent(t *testing.T) {
	docs, err := WebhookDocuments("star", []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestWebhookDocumentsBadPayload(t *testing.T) {
	_, err := WebhookDocuments("push", []byte(`{not json`))
	assert.Error(t, err)
}
