package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/akontos/hackmate/internal/github"
	"github.com/labstack/echo/v5"
)

const webhookIndexTimeout = 30 * time.Second

func (s *Server) handleWebhook(c *echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	signature := c.Request().Header.Get("X-Hub-Signature-256")
	if !github.VerifySignature(s.cfg.GitHubWebhookSecret, body, signature) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	eventType := c.Request().Header.Get("X-GitHub-Event")
	docs, err := github.WebhookDocuments(eventType, body)
	if err != nil {
		slog.Error("webhook payload rejected", "event", eventType, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "malformed payload")
	}

	// Acknowledge before indexing; GitHub retries slow responders.
	if len(docs) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), webhookIndexTimeout)
			defer cancel()
			for _, doc := range docs {
				if err := s.searcher.Index(ctx, doc); err != nil {
					slog.Error("webhook indexing failed", "id", doc.ID, "error", err)
				}
			}
			slog.Info("webhook event indexed", "event", eventType, "documents", len(docs))
		}()
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "received",
		"event":  eventType,
	})
}
