package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	TeamName           string
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int

	// Interview limits
	TotalQuestionsLimit  int
	MaxQuestionsPerTopic int

	// LLM configuration
	LLMProvider    string
	BedrockModelID string
	GeminiAPIKey   string
	GeminiModelID  string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Session registry
	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Persistence sinks
	DatabaseURL   string
	ArchiveBucket string
	LogFilePath   string

	// Fact-check search
	SearchEnabled bool
	SearchBaseURL string
	SearchTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TeamName:           getEnv("TEAM_NAME", "Interview Coach Team"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		TotalQuestionsLimit:  getEnvAsInt("TOTAL_QUESTIONS_LIMIT", 20),
		MaxQuestionsPerTopic: getEnvAsInt("MAX_QUESTIONS_PER_TOPIC", 5),

		LLMProvider:    strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "bedrock"))),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		LLMTemperature: getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 2000),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		ArchiveBucket: getEnv("ARCHIVE_BUCKET", ""),
		LogFilePath:   getEnv("LOG_FILE_PATH", "interview_log.json"),

		SearchEnabled: getEnvAsBool("SEARCH_ENABLED", true),
		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://html.duckduckgo.com/html/"),
		SearchTimeout: getEnvAsDuration("SEARCH_TIMEOUT", 10*time.Second),
	}
}

// Validate reports configuration that would leave the service unable to reach an LLM.
func (c *Config) Validate() []error {
	var errs []error
	switch c.LLMProvider {
	case "bedrock":
		if strings.TrimSpace(c.BedrockModelID) == "" {
			errs = append(errs, fmt.Errorf("config: BEDROCK_MODEL_ID is required for the bedrock provider"))
		}
	case "gemini":
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			errs = append(errs, fmt.Errorf("config: GEMINI_API_KEY is required for the gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unsupported LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.SessionStore != "memory" && c.SessionStore != "redis" {
		errs = append(errs, fmt.Errorf("config: unsupported SESSION_STORE %q", c.SessionStore))
	}
	if c.TotalQuestionsLimit < 1 {
		errs = append(errs, fmt.Errorf("config: TOTAL_QUESTIONS_LIMIT must be positive"))
	}
	return errs
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
