package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	Environment string
	CORSOrigins string

	// Data file paths.
	TrendPath     string
	RulesPath     string
	PriorPath     string
	OverridesPath string

	// API keys, collected from YT_KEY_1..YT_KEY_8.
	Keys []string

	// Credential pool tuning.
	KeyFailureThreshold  int
	KeyCooldownMinutes   int
	KeyCooldownResetHour int // -1 disables the daily-reset policy

	// Collection run tuning.
	PagesPerRun    int
	ResultsPerPage int
	LookbackDays   int
	RetentionDays  int

	// Classifier tuning.
	PriorAlpha       float64
	PriorMinBoost    float64
	PriorMaxBoost    float64
	PriorConfidence  float64
	OverrideMode     string
	OverridePosBoost float64
	OverrideNegBoost float64
}

// maxKeySlots bounds the YT_KEY_n scan.
const maxKeySlots = 8

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		TrendPath:     getEnv("TREND_PATH", "data/kw-trend.json"),
		RulesPath:     getEnv("RULES_PATH", "data/category-rules.json"),
		PriorPath:     getEnv("PRIOR_PATH", "data/ch-prior.json"),
		OverridesPath: getEnv("OVERRIDES_PATH", "data/ch-overrides.json"),

		Keys: loadKeys(),

		KeyFailureThreshold:  getEnvInt("KEY_FAILURE_THRESHOLD", 2),
		KeyCooldownMinutes:   getEnvInt("KEY_COOLDOWN_MINUTES", 60),
		KeyCooldownResetHour: getEnvInt("KEY_COOLDOWN_RESET_HOUR", -1),

		PagesPerRun:    getEnvInt("PAGES_PER_RUN", 2),
		ResultsPerPage: getEnvInt("RESULTS_PER_PAGE", 50),
		LookbackDays:   getEnvInt("LOOKBACK_DAYS", 14),
		RetentionDays:  getEnvInt("RETENTION_DAYS", 180),

		PriorAlpha:       getEnvFloat("PRIOR_ALPHA", 20),
		PriorMinBoost:    getEnvFloat("PRIOR_MIN_BOOST", 0.6),
		PriorMaxBoost:    getEnvFloat("PRIOR_MAX_BOOST", 1.4),
		PriorConfidence:  getEnvFloat("PRIOR_CONFIDENCE", 0.70),
		OverrideMode:     getEnv("OVERRIDE_MODE", "soft"),
		OverridePosBoost: getEnvFloat("OVERRIDE_POS_BOOST", 1.4),
		OverrideNegBoost: getEnvFloat("OVERRIDE_NEG_BOOST", 0.6),
	}
}

// loadKeys reads YT_KEY_1 through YT_KEY_8 in order, skipping empty slots
// so keys can be removed without renumbering the rest.
func loadKeys() []string {
	var keys []string
	for i := 1; i <= maxKeySlots; i++ {
		if k := os.Getenv(fmt.Sprintf("YT_KEY_%d", i)); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
