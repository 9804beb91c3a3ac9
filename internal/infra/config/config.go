package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port string

	OllamaURL        string
	LowCostModel     string
	HighQualityModel string

	ForumBaseURL    string
	MicroblogURL    string
	MicroblogToken  string
	VideoAPIURL     string
	VideoAPIKey     string
	TrendsURL       string
	TrendsGeo       string
	WebCrawlEnabled bool

	CacheBackend string // "memory" or "redis"
	RedisURL     string
	CacheSize    int
	CacheTTL     time.Duration

	SourceTimeout time.Duration
	EnableOTel    bool
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		OllamaURL:        getEnv("OLLAMA_URL", "http://ollama:11434"),
		LowCostModel:     getEnv("LLM_LOW_COST_MODEL", "llama3.2:3b"),
		HighQualityModel: getEnv("LLM_HIGH_QUALITY_MODEL", "llama3.1:70b"),

		ForumBaseURL:    getEnv("FORUM_BASE_URL", ""),
		MicroblogURL:    getEnv("MICROBLOG_API_URL", ""),
		MicroblogToken:  getSecret("MICROBLOG_BEARER_TOKEN", "MICROBLOG_BEARER_TOKEN_FILE", ""),
		VideoAPIURL:     getEnv("VIDEO_API_URL", ""),
		VideoAPIKey:     getSecret("VIDEO_API_KEY", "VIDEO_API_KEY_FILE", ""),
		TrendsURL:       getEnv("SEARCH_TRENDS_URL", ""),
		TrendsGeo:       getEnv("SEARCH_TRENDS_GEO", "US"),
		WebCrawlEnabled: getEnvBool("WEB_CRAWL_ENABLED", false),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		RedisURL:     getEnv("REDIS_URL", "redis://redis:6379/0"),
		CacheSize:    getEnvInt("CACHE_SIZE", 256),
		CacheTTL:     time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,

		SourceTimeout: time.Duration(getEnvInt("SOURCE_TIMEOUT_SECONDS", 45)) * time.Second,
		EnableOTel:    getEnvBool("ENABLE_OTEL", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
