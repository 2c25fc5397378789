// In file: internal/config/config.go

// Package config loads the service configuration from the environment, an
// optional .env file and the agent settings file (config.yaml).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config holds everything the server and CLI need to build a chat session.
type Config struct {
	Port          string
	GinMode       string
	LLMProvider   string
	OllamaBaseURL string
	LLMModel      string
	GeminiAPIKey  string
	// RedisAddr enables the history store when set.
	RedisAddr    string
	HistoryLimit int
	ConfigPath   string

	Agent     AgentSettings
	Sanitizer SanitizerSettings
}

// AgentSettings tune the agent without code changes.
type AgentSettings struct {
	SystemPrompt string   `yaml:"system_prompt"`
	MaxToolCalls int      `yaml:"max_tool_calls"`
	Temperature  *float32 `yaml:"temperature"`
}

// SanitizerSettings override the built-in denylist. A nil Denylist keeps the default.
type SanitizerSettings struct {
	Denylist []string `yaml:"denylist"`
}

type settingsFile struct {
	Agent     AgentSettings     `yaml:"agent"`
	Sanitizer SanitizerSettings `yaml:"sanitizer"`
}

// Load reads configuration. Outside release mode a .env file is loaded first
// if one exists; in containers the environment is provided directly.
func Load() (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		GinMode:       getEnv("GIN_MODE", ""),
		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderOllama)),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		LLMModel:      getEnv("LLM_MODEL", "llama3.1:8b"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		HistoryLimit:  getEnvInt("HISTORY_LIMIT", 50),
		ConfigPath:    getEnv("CONFIG_PATH", "config.yaml"),
	}

	settings, err := loadSettings(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Agent = settings.Agent
	cfg.Sanitizer = settings.Sanitizer

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadSettings parses the agent settings file. A missing file is not an
// error; a malformed one is.
func loadSettings(path string) (*settingsFile, error) {
	settings := &settingsFile{}
	if path == "" {
		return settings, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARNING: %s not found, using built-in agent settings.", path)
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return settings, nil
}

// Validate checks that required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.LLMModel == "" {
		return errors.New("LLM_MODEL cannot be empty")
	}
	switch c.LLMProvider {
	case ProviderOllama:
		if c.OllamaBaseURL == "" {
			return errors.New("OLLAMA_BASE_URL cannot be empty")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY must be set when LLM_PROVIDER is gemini")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want %s or %s)", c.LLMProvider, ProviderOllama, ProviderGemini)
	}
	if c.HistoryLimit <= 0 {
		return errors.New("HISTORY_LIMIT must be > 0")
	}
	if c.Agent.MaxToolCalls < 0 {
		return errors.New("agent.max_tool_calls must be >= 0")
	}
	if t := c.Agent.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("agent.temperature must be between 0 and 2, got %v", *t)
	}
	return nil
}

// HistoryEnabled reports whether exchanges should be recorded in Redis.
func (c *Config) HistoryEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("WARNING: %s=%q is not a number, using %d.", key, value, fallback)
		return fallback
	}
	return n
}
