package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server         ServerConfig
	Redis          RedisConfig
	Registry       RegistryConfig
	PubMed         PubMedConfig
	WebSearch      WebSearchConfig
	ClinicalTrials ClinicalTrialsConfig
	OpenAI         OpenAIConfig
	SMTP           SMTPConfig
	Pipeline       PipelineConfig
	OTEL           OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RegistryConfig holds NPI registry endpoint configuration
type RegistryConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PubMedConfig holds PubMed E-utilities configuration
type PubMedConfig struct {
	BaseURL string
	RetMax  int
	Timeout time.Duration
}

// WebSearchConfig holds the web search endpoint configuration
type WebSearchConfig struct {
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

// ClinicalTrialsConfig holds the trials registry configuration
type ClinicalTrialsConfig struct {
	BaseURL string
	MaxRank int
	MaxUsed int
	Timeout time.Duration
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	RateLimitRPM   int
	RateLimitBurst int
}

// SMTPConfig holds mail transport configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// PipelineConfig holds profile pipeline tuning knobs
type PipelineConfig struct {
	Workers         int
	CacheTTLSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Registry: RegistryConfig{
			BaseURL: getEnv("NPI_REGISTRY_URL", "https://npiregistry.cms.hhs.gov/api/"),
			Timeout: getEnvAsDuration("NPI_REGISTRY_TIMEOUT", 20*time.Second),
		},
		PubMed: PubMedConfig{
			BaseURL: getEnv("PUBMED_BASE_URL", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"),
			RetMax:  getEnvAsInt("PUBMED_RETMAX", 20),
			Timeout: getEnvAsDuration("PUBMED_TIMEOUT", 20*time.Second),
		},
		WebSearch: WebSearchConfig{
			BaseURL:    getEnv("WEB_SEARCH_URL", ""),
			MaxResults: getEnvAsInt("WEB_SEARCH_MAX_RESULTS", 5),
			Timeout:    getEnvAsDuration("WEB_SEARCH_TIMEOUT", 20*time.Second),
		},
		ClinicalTrials: ClinicalTrialsConfig{
			BaseURL: getEnv("CLINICAL_TRIALS_URL", "https://clinicaltrials.gov/api/query/study_fields"),
			MaxRank: getEnvAsInt("CLINICAL_TRIALS_MAX_RANK", 50),
			MaxUsed: getEnvAsInt("CLINICAL_TRIALS_MAX_USED", 5),
			Timeout: getEnvAsDuration("CLINICAL_TRIALS_TIMEOUT", 10*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", ""),
		},
		Pipeline: PipelineConfig{
			Workers:         getEnvAsInt("PIPELINE_WORKERS", 1),
			CacheTTLSeconds: getEnvAsInt("PROFILE_CACHE_TTL_SECONDS", 3600),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hcp-profiling-agent"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Configured reports whether all required mail transport settings are present.
func (c *SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
