// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Perplexity PerplexityConfig
	Fetch      FetchConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	Stats      StatsConfig
}

type ServerConfig struct {
	Port    string `envconfig:"PORT" default:"8082"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`
	DevMode bool   `envconfig:"DEV_MODE" default:"false"`
}

type PerplexityConfig struct {
	APIKey  string        `envconfig:"PERPLEXITY_API_KEY"`
	URL     string        `envconfig:"PERPLEXITY_API_URL" default:"https://api.perplexity.ai/chat/completions"`
	Model   string        `envconfig:"PERPLEXITY_MODEL" default:"mistral-7b-instruct"`
	Timeout time.Duration `envconfig:"INSIGHT_TIMEOUT" default:"30s"`
}

// FetchConfig bounds every outbound page and probe retrieval.
type FetchConfig struct {
	Timeout      time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
	ProbeTimeout time.Duration `envconfig:"PROBE_TIMEOUT" default:"5s"`
	UserAgent    string        `envconfig:"USER_AGENT" default:"SEOAnalyzer/1.0"`
}

type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"RATE_LIMIT_RPS" default:"2"`
	Burst             int     `envconfig:"RATE_LIMIT_BURST" default:"5"`
	Enabled           bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

type StatsConfig struct {
	DataDir string `envconfig:"DATA_DIR" default:"data"`
}

// LoadEnv reads .env.development, falling back to .env. Missing files are not
// an error; the process environment always wins.
func LoadEnv() {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

// Load reads dotenv files and then the environment.
func Load() (*Config, error) {
	LoadEnv()
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
