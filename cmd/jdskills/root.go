package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/jdskills/internal/ai"
	"github.com/amishk599/jdskills/internal/config"
	"github.com/amishk599/jdskills/internal/model"
	"github.com/amishk599/jdskills/internal/notifier"
	"github.com/amishk599/jdskills/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jdskills",
	Short: "Turn job descriptions into skill checklists",
	Long: "jdskills sends a job description to an LLM and splits the reply into must-have and\n" +
		"good-to-have skills, then prints, stores and optionally shares the breakdown.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JDSKILLS_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > JDSKILLS_CONFIG env var > "./config.yaml".
// A missing ./config.yaml yields the defaults; a missing explicit file is an error.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	explicit := true
	if path == "" {
		if env := os.Getenv("JDSKILLS_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
			explicit = false
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// setupLogger logs to stderr so rendered output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupProvider(cfg *config.Config, logger *slog.Logger) (ai.Provider, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("no API key: set ai.api_key in the config or %s", cfg.AI.APIKeyEnv())
	}
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	logger.Debug("using llm provider", "provider", cfg.AI.Provider, "model", cfg.AI.Model, "base_url", cfg.AI.BaseURL)

	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens, httpClient), nil
	default:
		return ai.NewAnthropicProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens, httpClient), nil
	}
}

// setupStore opens the history database, or a no-op store when saving is off.
// The returned close function is always safe to call.
func setupStore(cfg *config.Config, noSave bool, logger *slog.Logger) (model.AnalysisStore, func(), error) {
	if noSave || !cfg.Store.Enabled {
		logger.Debug("history disabled, analyses will not be saved")
		return store.NewNopStore(), func() {}, nil
	}
	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

// openHistory opens the history database for the history subcommands.
func openHistory(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.Store.Path)
}

func setupPublisher(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Publisher {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
