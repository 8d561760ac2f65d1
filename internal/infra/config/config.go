package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	LLM         LLMConfig         `yaml:"llm"`
	Pexels      PexelsConfig      `yaml:"pexels"`
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Valkey      ValkeyConfig      `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig holds access-token validation settings.
type AuthConfig struct {
	Secret string `yaml:"secret"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// PexelsConfig controls the image-search provider client.
type PexelsConfig struct {
	APIKey             string        `yaml:"apiKey"`
	BaseURL            string        `yaml:"baseUrl"`
	MaxRequestsPerHour int           `yaml:"maxRequestsPerHour"`
	SearchWindow       time.Duration `yaml:"searchWindow"`
}

// SuggestionsConfig tunes the attraction-suggestion pipeline.
type SuggestionsConfig struct {
	Count            int           `yaml:"count"`
	CacheTTL         time.Duration `yaml:"cacheTtl"`
	OwnershipTTL     time.Duration `yaml:"ownershipTtl"`
	OperationTimeout time.Duration `yaml:"operationTimeout"`
	ImageTimeout     time.Duration `yaml:"imageTimeout"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the shared suggestion cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from an optional .env file, a YAML file and
// environment variables, in that order of increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("PEXELS_API_KEY"); v != "" {
		cfg.Pexels.APIKey = v
	}
	if v := os.Getenv("PEXELS_BASE_URL"); v != "" {
		cfg.Pexels.BaseURL = v
	}
	if v := os.Getenv("PEXELS_MAX_REQUESTS_PER_HOUR"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Pexels.MaxRequestsPerHour = parsed
		}
	}
	if v := os.Getenv("SUGGESTIONS_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Suggestions.Count = parsed
		}
	}
	if v := os.Getenv("SUGGESTIONS_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Suggestions.CacheTTL = parsed
		}
	}
	if v := os.Getenv("SUGGESTIONS_OWNERSHIP_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Suggestions.OwnershipTTL = parsed
		}
	}
	if v := os.Getenv("SUGGESTIONS_OPERATION_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Suggestions.OperationTimeout = parsed
		}
	}
	if v := os.Getenv("SUGGESTIONS_IMAGE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Suggestions.ImageTimeout = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address: ":8080",
			// Write timeout must cover the 55s generation deadline.
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-3.5-turbo-1106",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Pexels: PexelsConfig{
			BaseURL:            "https://api.pexels.com/v1",
			MaxRequestsPerHour: 200,
			SearchWindow:       time.Hour,
		},
		Suggestions: SuggestionsConfig{
			Count:            8,
			CacheTTL:         15 * time.Minute,
			OwnershipTTL:     5 * time.Minute,
			OperationTimeout: 55 * time.Second,
			ImageTimeout:     3 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.Pexels.MaxRequestsPerHour <= 0 {
		return errors.New("pexels.maxRequestsPerHour must be positive")
	}
	if c.Pexels.SearchWindow <= 0 {
		return errors.New("pexels.searchWindow must be positive")
	}
	if c.Suggestions.Count <= 0 {
		return errors.New("suggestions.count must be positive")
	}
	if c.Suggestions.CacheTTL <= 0 {
		return errors.New("suggestions.cacheTtl must be positive")
	}
	if c.Suggestions.OwnershipTTL <= 0 {
		return errors.New("suggestions.ownershipTtl must be positive")
	}
	if c.Suggestions.OperationTimeout <= 0 {
		return errors.New("suggestions.operationTimeout must be positive")
	}
	if c.Suggestions.ImageTimeout <= 0 {
		return errors.New("suggestions.imageTimeout must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when the valkey cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
