// Package config loads hackmate configuration from a TOML file and
// HACKMATE_* environment variables via viper. A .env file in the working
// directory is honored when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
	DocsDir string `mapstructure:"docs_dir"`

	OpenAIToken         string `mapstructure:"openai_token"`
	OpenAIBaseURL       string `mapstructure:"openai_base_url"`
	Model               string `mapstructure:"model"`
	EmbeddingDimensions int    `mapstructure:"embedding_dimensions"`

	GitHubToken         string `mapstructure:"github_token"`
	GitHubWebhookSecret string `mapstructure:"github_webhook_secret"`

	// ServerURL and RequestTimeoutSeconds configure the client side.
	ServerURL             string `mapstructure:"server_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`

	CORSOrigins []string `mapstructure:"cors_origins"`

	PromptDir string `mapstructure:"prompt_dir"`
}

// RequestTimeout is the fixed per-request timeout for the API client.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DatabasePath is the sqlite file holding documents and preferences.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "hackmate.db")
}

// VectorDir is the chromem-go persistence directory.
func (c *Config) VectorDir() string {
	return filepath.Join(c.DataDir, "vectorstore")
}

func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "hackmate")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".local", "share", "hackmate")
}

// Init wires defaults, the config file, and environment bindings into
// viper. Call once from the CLI before Load.
func Init(cfgFile string) {
	// .env is optional; ignore a missing file
	_ = godotenv.Load()

	viper.SetEnvPrefix("HACKMATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", 8080)
	viper.SetDefault("data_dir", defaultDataDir())
	viper.SetDefault("docs_dir", "")
	viper.SetDefault("openai_token", "")
	viper.SetDefault("openai_base_url", "")
	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("embedding_dimensions", 1536)
	viper.SetDefault("github_token", "")
	viper.SetDefault("github_webhook_secret", "")
	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("request_timeout_seconds", 30)
	viper.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:3001"})
	viper.SetDefault("prompt_dir", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(userConfigDir())
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// Load materializes the Config from viper's current state.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Port <= 0 {
		cfg.Port = 8080
	}
	if cfg.EmbeddingDimensions <= 0 {
		cfg.EmbeddingDimensions = 1536
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 30
	}

	return &cfg, nil
}
