package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/clarainova/clara-backend/internal/entity"
	pkgRetry "github.com/clarainova/clara-backend/internal/pkg/retry"
	"github.com/clarainova/clara-backend/internal/pkg/synonyms"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`
	Version    string `env:"APP_VERSION" envDefault:"dev"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	WebSearchConnectorCfg WebSearchConnectorConfig `envPrefix:"WEBSEARCH_"`

	// Object storage configuration
	StorageCfg StorageConfig `envPrefix:"MINIO_"`

	// Redis configuration (optional; rate limiting falls back to an
	// in-process limiter when Addr is empty)
	RedisCfg RedisConfig `envPrefix:"REDIS_"`

	// Admin authentication
	AdminKey string `env:"ADMIN_KEY"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Request limits and rate limiting
	LimitsCfg    LimitsConfig    `envPrefix:"LIMITS_"`
	RateLimitCfg RateLimitConfig `envPrefix:"RATELIMIT_"`

	// Synonym table (loaded from JSON file)
	Synonyms synonyms.Table

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Model        string               `env:"MODEL,notEmpty"`
	OCRModel     string               `env:"OCR_MODEL"`
	ChatEndpoint string               `env:"CHAT_ENDPOINT" envDefault:"/v1/chat/completions"`
	MaxTokens    int                  `env:"MAX_TOKENS" envDefault:"2048"`
	Temperature  float64              `env:"TEMPERATURE" envDefault:"0.2"`
	Retry        pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Model     string               `env:"MODEL,notEmpty"`
	Endpoint  string               `env:"ENDPOINT" envDefault:"/v1/embeddings"`
	Dimension int                  `env:"DIMENSION" envDefault:"768"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type WebSearchConnectorConfig struct {
	HTTPClientConfig
	Endpoint   string               `env:"ENDPOINT" envDefault:"/search"`
	MaxResults int                  `env:"MAX_RESULTS" envDefault:"5"`
	Retry      pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	URL                   string        `env:"SERVICE_URL"`
}

type StorageConfig struct {
	Endpoint     string        `env:"ENDPOINT"`
	AccessKey    string        `env:"ACCESS_KEY"`
	SecretKey    string        `env:"SECRET_KEY"`
	Bucket       string        `env:"BUCKET" envDefault:"clara-documents"`
	UseSSL       bool          `env:"USE_SSL" envDefault:"false"`
	PublicURL    string        `env:"PUBLIC_URL"`
	UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL" envDefault:"15m"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// LimitsConfig holds request-shape limits enforced before provider calls
type LimitsConfig struct {
	MaxMessageChars  int `env:"MAX_MESSAGE_CHARS" envDefault:"10000"`
	MaxHistoryTurns  int `env:"MAX_HISTORY_TURNS" envDefault:"50"`
	MaxSearchResults int `env:"MAX_SEARCH_RESULTS" envDefault:"20"`
}

type RateLimitConfig struct {
	ChatLimit   int           `env:"CHAT_LIMIT" envDefault:"15"`
	ChatPeriod  time.Duration `env:"CHAT_PERIOD" envDefault:"60s"`
	AdminLimit  int           `env:"ADMIN_LIMIT" envDefault:"5"`
	AdminPeriod time.Duration `env:"ADMIN_PERIOD" envDefault:"300s"`
}

// synonymsFile represents the structure of synonyms.json
type synonymsFile struct {
	Synonyms map[string][]string `json:"synonyms"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := loadSynonyms(cfg); err != nil {
		return nil, fmt.Errorf("load synonyms: %w", err)
	}

	return cfg, nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod":
		return ".env.prod"
	case "local":
		return ".env.local"
	default:
		return ".env." + environment
	}
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}
	if cfg.EmbeddingConnectorCfg.Dimension != entity.EmbeddingDim {
		errs = append(errs, fmt.Sprintf("EMBEDDING_DIMENSION must be %d, got %d", entity.EmbeddingDim, cfg.EmbeddingConnectorCfg.Dimension))
	}
	if cfg.RateLimitCfg.ChatLimit < 1 {
		errs = append(errs, fmt.Sprintf("RATELIMIT_CHAT_LIMIT must be positive, got %d", cfg.RateLimitCfg.ChatLimit))
	}
	if cfg.RateLimitCfg.AdminLimit < 1 {
		errs = append(errs, fmt.Sprintf("RATELIMIT_ADMIN_LIMIT must be positive, got %d", cfg.RateLimitCfg.AdminLimit))
	}
	if !cfg.EnableMocks && cfg.AdminKey == "" {
		errs = append(errs, "ADMIN_KEY is required when mocks are disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LLMConfigured reports whether a provider credential is present. Chat
// endpoints answer CONFIG_ERROR without it (mocks excepted).
func (c *Config) LLMConfigured() bool {
	return c.EnableMocks || c.LLMConnectorCfg.Token != ""
}

func loadSynonyms(cfg *Config) error {
	path := filepath.Join("internal", "config", "synonyms.json")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.Synonyms = synonyms.DefaultTable()
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read synonyms file: %w", err)
	}

	var parsed synonymsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse synonyms JSON: %w", err)
	}
	if len(parsed.Synonyms) == 0 {
		return fmt.Errorf("synonyms file is empty: %s", path)
	}

	cfg.Synonyms = synonyms.Table(parsed.Synonyms)
	return nil
}
