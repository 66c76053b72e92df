package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from a single YAML file.
type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	LLM       LLMConfig       `yaml:"llm"`
	Store     StoreConfig     `yaml:"store"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Assistant AssistantConfig `yaml:"assistant"`
	LogLevel  string          `yaml:"log_level"`
}

// BackendConfig points at the ordering backend REST API.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig selects the chat-completion provider for the voice assistant.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// StoreConfig locates the local SQLite store for tokens, the cached profile
// and voice-session transcripts.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DashboardConfig configures the staff dashboard service.
type DashboardConfig struct {
	Addr         string        `yaml:"addr"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// AssistantConfig configures the voice ordering assistant.
type AssistantConfig struct {
	Muted           bool   `yaml:"muted"`
	DeliveryAddress string `yaml:"delivery_address"`
}

// Load reads the configuration file, applies defaults and pulls secrets from
// the environment. A missing file yields the defaults rather than an error so
// the CLI works out of the box against a local backend.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			Provider:    "groq",
			Model:       "llama-3.1-70b-versatile",
			Temperature: 0.7,
			MaxTokens:   1024,
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Dashboard: DashboardConfig{
			Addr:         ":8090",
			MetricsAddr:  ":9090",
			PollInterval: 5 * time.Second,
		},
		LogLevel: "info",
	}
}

// applyEnv lets secrets and the backend address come from the environment so
// they stay out of config files.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DOGANJIB_API_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Dashboard.PollInterval <= 0 {
		return fmt.Errorf("dashboard.poll_interval must be positive")
	}
	return nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "doganjib.db"
	}
	return home + "/.doganjib/doganjib.db"
}
