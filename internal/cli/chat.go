package cli

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/akontos/hackmate/internal/chat"
	"github.com/akontos/hackmate/internal/client"
	"github.com/akontos/hackmate/internal/config"
	"github.com/akontos/hackmate/internal/prefs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var chatRepoURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to a running hackmate server",
	Long: `Interactive chat against the server configured by server_url. Messages
are classified by intent: idea pitches are validated against indexed
projects, and progress questions produce a GitHub report when a
repository is linked with --repo or "/repo <url>".

Commands inside the session: /repo <url>, /reset, /quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := prefs.Open(cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer store.Close()

		backend := client.New(cfg.ServerURL, &http.Client{Timeout: cfg.RequestTimeout()})
		session := chat.NewSession(backend)

		repoURL := chatRepoURL
		if repoURL == "" {
			repoURL, err = store.Get(prefs.KeyRepoURL, "")
			if err != nil {
				return err
			}
		}
		if repoURL != "" {
			session.SetRepoURL(repoURL)
			fmt.Printf("[repository: %s]\n", repoURL)
		}

		printed := 0
		session.Subscribe(func() {
			messages := session.Messages()
			if len(messages) < printed {
				// reset replaced the conversation
				printed = 0
			}
			for ; printed < len(messages); printed++ {
				printMessage(messages[printed])
			}
		})
		for _, msg := range session.Messages() {
			printMessage(msg)
			printed++
		}

		return repl(cmd, session, store)
	},
}

func repl(cmd *cobra.Command, session *chat.Session, store *prefs.Store) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/reset":
			if err := session.Reset(); err != nil {
				fmt.Println("cannot reset:", err)
			}
		case strings.HasPrefix(line, "/repo"):
			url := strings.TrimSpace(strings.TrimPrefix(line, "/repo"))
			if url == "" {
				fmt.Println("usage: /repo <github url>")
				continue
			}
			session.SetRepoURL(url)
			if err := store.Set(prefs.KeyRepoURL, url); err != nil {
				fmt.Println("warning: repository not saved:", err)
			}
			fmt.Printf("[repository: %s]\n", url)
		case strings.HasPrefix(line, "/"):
			fmt.Println("unknown command:", line)
		default:
			err := session.Send(cmd.Context(), line)
			if errors.Is(err, chat.ErrBusy) {
				fmt.Println("still waiting for the previous answer")
				continue
			}
			if err != nil {
				return err
			}
			printSuggestions(session.Suggestions())
		}
	}
}

func printMessage(msg chat.Message) {
	label := "you"
	if msg.Role == chat.RoleAssistant {
		label = "hackmate"
	}
	fmt.Printf("\n%s: %s\n", label, msg.Content)

	for _, src := range msg.Sources {
		line := "  - " + src.Title
		if src.URL != "" {
			line += " <" + src.URL + ">"
		}
		fmt.Println(line)
	}
}

func printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Println("\nTry asking:")
	for _, suggestion := range suggestions {
		fmt.Println("  *", suggestion)
	}
}

func init() {
	chatCmd.Flags().StringVar(&chatRepoURL, "repo", "", "GitHub repository to track for progress questions")
	rootCmd.AddCommand(chatCmd)
}
