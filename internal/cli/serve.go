package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akontos/hackmate/internal/config"
	"github.com/akontos/hackmate/internal/github"
	"github.com/akontos/hackmate/internal/ingest"
	"github.com/akontos/hackmate/internal/llm"
	"github.com/akontos/hackmate/internal/search"
	"github.com/akontos/hackmate/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hackmate API server",
	Long: `Start the HTTP API server. Indexes the configured docs directory on
startup when one is set, then serves chat, search, GitHub analysis,
webhook, and health endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		llmService, engine, cleanup, err := buildServices(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if cfg.DocsDir != "" {
			if _, err := ingest.New(engine).IngestDocsDir(cmd.Context(), cfg.DocsDir); err != nil {
				slog.Warn("startup ingestion failed", "dir", cfg.DocsDir, "error", err)
			}
		}

		githubClient := github.NewClient(cfg.GitHubToken, cfg.RequestTimeout())
		srv := server.New(cfg, engine, llmService, githubClient)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			slog.Info("shutting down", "signal", sig)
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

// buildServices opens the document store, vector store, and model service.
// The returned cleanup closes what was opened.
func buildServices(cfg *config.Config) (*llm.Service, *search.Engine, func(), error) {
	var llmClient *llm.Client
	if cfg.OpenAIToken != "" {
		llmClient = llm.NewClient(cfg.OpenAIToken, cfg.OpenAIBaseURL, cfg.Model, cfg.EmbeddingDimensions)
	} else {
		slog.Warn("no model API token configured, responses use offline mode")
	}
	llmService := llm.NewService(llmClient, cfg.EmbeddingDimensions, cfg.PromptDir)

	store, err := search.OpenStore(cfg.DatabasePath())
	if err != nil {
		return nil, nil, nil, err
	}

	vectors, err := search.NewVectorStore(cfg.VectorDir(), func(ctx context.Context, text string) ([]float32, error) {
		return llmService.Embed(ctx, text)
	})
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	engine, err := search.NewEngine(store, vectors)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	return llmService, engine, func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing store: %v\n", err)
		}
	}, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
