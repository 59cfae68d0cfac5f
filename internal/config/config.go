package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	insecureJWTSecret = "supersecretkey"

	envAddr         = "CHRONOS_ADDR"
	envJWTSecret    = "CHRONOS_JWT_SECRET"
	envDatabasePath = "CHRONOS_DATABASE_PATH"
	envEnvironment  = "CHRONOS_ENV"
	envOllamaURL    = "CHRONOS_OLLAMA_URL"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	Advice         AdviceConfig  `yaml:"advice"`
	Ollama         OllamaConfig  `yaml:"ollama"`
}

// AdviceConfig drives the productivity advice generator.
type AdviceConfig struct {
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
	SystemPrompt   string        `yaml:"system_prompt"`
	PromptTemplate string        `yaml:"prompt_template"`
	Fallback       string        `yaml:"fallback"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	DefaultModelNames       []string      `yaml:"models"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

// DefaultOllamaConfig returns the settings used for a local Ollama install.
func DefaultOllamaConfig() OllamaConfig {
	return OllamaConfig{
		BaseURL:                 "http://localhost:11434",
		DefaultModelNames:       []string{"llama3"},
		Timeout:                 30 * time.Second,
		Retries:                 3,
		Backoff:                 500 * time.Millisecond,
		CircuitFailureThreshold: 5,
		CircuitReset:            30 * time.Second,
	}
}

// DefaultAdviceConfig returns the prompt settings for productivity advice.
func DefaultAdviceConfig() AdviceConfig {
	return AdviceConfig{
		Model:   "llama3",
		Timeout: 20 * time.Second,
		SystemPrompt: "You are a helpful productivity assistant for a time tracking app. " +
			"Keep answers short (max 3 sentences), actionable and empathetic.",
		PromptTemplate: "Analyze this work context and give one short productivity or work-life balance tip. " +
			"Context: {{.Context}}",
		Fallback: "Could not get advice right now. Check your connection.",
	}
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 24 * time.Hour

	cfg := &Config{
		Addr:          getEnv(envAddr, ":8080"),
		JWTSecret:     getEnv(envJWTSecret, insecureJWTSecret),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv(envDatabasePath, "chronosflow.db"),
		TokenDuration: tokenDuration,
		BcryptCost:    bcrypt.DefaultCost,
		Advice:        DefaultAdviceConfig(),
		Ollama:        DefaultOllamaConfig(),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv(envOllamaURL); v != "" {
		cfg.Ollama.BaseURL = v
	}

	return cfg, nil
}

// Validate rejects unusable settings and fills zero-valued optional ones.
// The built-in JWT secret is only accepted when CHRONOS_ENV=development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.DatabasePath == "" {
		return errors.New("database_path is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.JWTSecret == insecureJWTSecret && !IsDevelopment() {
		return fmt.Errorf("insecure jwt_secret: set %s or run with %s=development", envJWTSecret, envEnvironment)
	}
	if c.Advice.Model == "" {
		return errors.New("advice.model is required")
	}

	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = 24 * time.Hour
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	ad := DefaultAdviceConfig()
	if c.Advice.Timeout <= 0 {
		c.Advice.Timeout = ad.Timeout
	}
	if c.Advice.SystemPrompt == "" {
		c.Advice.SystemPrompt = ad.SystemPrompt
	}
	if c.Advice.PromptTemplate == "" {
		c.Advice.PromptTemplate = ad.PromptTemplate
	}
	if c.Advice.Fallback == "" {
		c.Advice.Fallback = ad.Fallback
	}

	od := DefaultOllamaConfig()
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = od.BaseURL
	}
	if len(c.Ollama.DefaultModelNames) == 0 {
		c.Ollama.DefaultModelNames = []string{c.Advice.Model}
	}
	if c.Ollama.Timeout <= 0 {
		c.Ollama.Timeout = od.Timeout
	}
	if c.Ollama.Retries == 0 {
		c.Ollama.Retries = od.Retries
	}
	if c.Ollama.Backoff <= 0 {
		c.Ollama.Backoff = od.Backoff
	}
	if c.Ollama.CircuitFailureThreshold == 0 {
		c.Ollama.CircuitFailureThreshold = od.CircuitFailureThreshold
	}
	if c.Ollama.CircuitReset <= 0 {
		c.Ollama.CircuitReset = od.CircuitReset
	}

	return nil
}

// IsDevelopment reports whether CHRONOS_ENV is set to development.
func IsDevelopment() bool {
	return os.Getenv(envEnvironment) == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
