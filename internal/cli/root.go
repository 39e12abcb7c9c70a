// Package cli wires the hackmate commands: serve, chat, index, prefs,
// version.
package cli

import (
	"log/slog"
	"os"

	"github.com/akontos/hackmate/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hackmate",
	Short: "Hackathon assistant: chat, idea validation, progress tracking",
	Long: `hackmate is a hackathon assistant. It answers technical questions from an
indexed documentation corpus, validates project ideas against past hackathon
projects, and tracks development progress through GitHub.

Run the server with "hackmate serve", then talk to it with "hackmate chat".`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/hackmate/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() {
	config.Init(cfgFile)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
