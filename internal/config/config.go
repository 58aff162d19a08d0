package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Logger     LoggerConfig
	Scoring    ScoringConfig
	Signals    SignalsConfig
	Redis      RedisConfig
	Escalation EscalationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ScoringConfig holds the fixed priority weights. They are not required to
// sum to 1; the engine clamps the final score.
type ScoringConfig struct {
	WeightUrgency      float64
	WeightSLA          float64
	WeightCustomerTier float64
}

// SignalsConfig selects and tunes the signal source.
type SignalsConfig struct {
	// Provider is "keyword" or "openai".
	Provider       string
	OpenAIAPIKey   string
	Model          string
	MaxTokens      int
	Temperature    float64
	TimeoutSeconds int
	CacheEnabled   bool
	CacheTTL       time.Duration
}

// RedisConfig holds Redis connection values for the signal cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EscalationConfig holds stub escalation endpoints.
type EscalationConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-prioritizer"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scoring: ScoringConfig{
			WeightUrgency:      getEnvAsFloat("WEIGHT_URGENCY", 0.4),
			WeightSLA:          getEnvAsFloat("WEIGHT_SLA", 0.4),
			WeightCustomerTier: getEnvAsFloat("WEIGHT_CUSTOMER_TIER", 0.2),
		},
		Signals: SignalsConfig{
			Provider:       getEnv("SIGNALS_PROVIDER", "keyword"),
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
			Model:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 500),
			Temperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 10),
			CacheEnabled:   getEnvAsBool("SIGNALS_CACHE_ENABLED", false),
			CacheTTL:       time.Duration(getEnvAsInt("SIGNALS_CACHE_TTL_MINUTES", 30)) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Escalation: EscalationConfig{
			WebhookURL: getEnv("ESCALATION_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the signal source call timeout.
func (s SignalsConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
