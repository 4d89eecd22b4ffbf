package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/render"
)

// Config is the root configuration for jdskills.
type Config struct {
	AI           AIConfig
	Analysis     AnalysisConfig
	Store        StoreConfig
	Notification NotificationConfig
}

// AIConfig selects the LLM provider and how it is called.
type AIConfig struct {
	Provider  string        // "anthropic" or "openai"
	BaseURL   string        // defaults per provider
	Model     string        // model identifier, e.g. "claude-3-5-haiku-latest"
	APIKey    string        // expanded from env var by Load
	MaxTokens int           // reply budget per call
	Timeout   time.Duration // per-request timeout
}

// AnalysisConfig holds defaults for the analyze and chat commands.
type AnalysisConfig struct {
	Variant string `yaml:"variant"` // "four" or "two"
	Format  string `yaml:"format"`  // "text", "markdown" or "json"
}

// StoreConfig controls the analysis history database.
type StoreConfig struct {
	Path    string
	Enabled bool
}

// NotificationConfig controls where shared analyses go.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

var providerDefaults = map[string]struct {
	baseURL string
	model   string
	keyEnv  string
}{
	ProviderAnthropic: {baseURL: "https://api.anthropic.com", model: "claude-3-5-haiku-latest", keyEnv: "ANTHROPIC_API_KEY"},
	ProviderOpenAI:    {baseURL: "https://api.openai.com/v1", model: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY"},
}

const (
	defaultMaxTokens = 1500
	defaultTimeout   = 60 * time.Second
	defaultStorePath = "jdskills.db"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI           rawAIConfig        `yaml:"ai"`
	Analysis     AnalysisConfig     `yaml:"analysis"`
	Store        rawStoreConfig     `yaml:"store"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawAIConfig struct {
	Provider  string `yaml:"provider"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
}

type rawStoreConfig struct {
	Path    string `yaml:"path"`
	Enabled *bool  `yaml:"enabled"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, err := build(rawConfig{})
	if err != nil {
		// defaults are always valid
		panic(err)
	}
	return cfg
}

// LoadDotEnv loads variables from a .env file at path into the process
// environment without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return build(raw)
}

func build(raw rawConfig) (*Config, error) {
	provider := strings.ToLower(raw.AI.Provider)
	if provider == "" {
		provider = ProviderAnthropic
	}
	defaults := providerDefaults[provider]

	aiTimeout := defaultTimeout
	if raw.AI.Timeout != "" {
		var err error
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	cfg := &Config{
		AI: AIConfig{
			Provider:  provider,
			BaseURL:   orDefault(raw.AI.BaseURL, defaults.baseURL),
			Model:     orDefault(raw.AI.Model, defaults.model),
			APIKey:    raw.AI.APIKey,
			MaxTokens: raw.AI.MaxTokens,
			Timeout:   aiTimeout,
		},
		Analysis: AnalysisConfig{
			Variant: orDefault(raw.Analysis.Variant, "four"),
			Format:  orDefault(raw.Analysis.Format, "text"),
		},
		Store: StoreConfig{
			Path:    orDefault(raw.Store.Path, defaultStorePath),
			Enabled: raw.Store.Enabled == nil || *raw.Store.Enabled,
		},
		Notification: NotificationConfig{
			Type:       orDefault(raw.Notification.Type, "log"),
			WebhookURL: raw.Notification.WebhookURL,
		},
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = defaultMaxTokens
	}
	if cfg.AI.APIKey == "" && defaults.keyEnv != "" {
		cfg.AI.APIKey = os.Getenv(defaults.keyEnv)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// APIKeyEnv names the environment variable consulted when ai.api_key is empty.
func (c AIConfig) APIKeyEnv() string {
	return providerDefaults[c.Provider].keyEnv
}

func validate(cfg *Config) error {
	if _, ok := providerDefaults[cfg.AI.Provider]; !ok {
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderAnthropic, ProviderOpenAI, cfg.AI.Provider)
	}
	if cfg.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive, got %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}

	if _, err := extract.Vocabulary(cfg.Analysis.Variant); err != nil {
		return fmt.Errorf("analysis.variant: %w", err)
	}
	if !slices.Contains(render.Names(), cfg.Analysis.Format) {
		return fmt.Errorf("analysis.format must be one of %v, got %q", render.Names(), cfg.Analysis.Format)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
