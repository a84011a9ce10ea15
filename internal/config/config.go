package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	DataPath    string
	Environment string
	LogLevel    string
	LogFormat   string

	AIProvider    string
	AIBaseURL     string
	AIAPIKey      string
	AIModel       string
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	AITimeoutSec  int

	GenerateAttempts int
	RateLimitRPS     float64
	RateLimitBurst   int
	CORSOrigins      []string
	NameLedgerLimit  int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DataPath:    getEnv("DATA_PATH", "./data/names.json"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", ""),

		AIProvider:    strings.ToLower(getEnv("AI_PROVIDER", "google")),
		AIBaseURL:     strings.TrimRight(getEnv("AI_BASE_URL", "https://api.openai.com"), "/"),
		AIAPIKey:      getEnv("AI_API_KEY", ""),
		AIModel:       getEnv("AI_MODEL", "gpt-4o"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL: strings.TrimRight(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		AITimeoutSec:  getEnvInt("AI_TIMEOUT_SEC", 20),

		GenerateAttempts: getEnvInt("GENERATE_ATTEMPTS", 2),
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 5),
		CORSOrigins:      getEnvList("CORS_ORIGINS", []string{"*"}),
		NameLedgerLimit:  getEnvInt("NAME_LEDGER_LIMIT", 50),
	}

	switch cfg.AIProvider {
	case "google", "gemini", "openai", "aihubmix":
	default:
		return Config{}, errors.New("ai provider must be google or openai")
	}
	if cfg.AITimeoutSec <= 0 {
		return Config{}, errors.New("ai timeout sec must be > 0")
	}
	if cfg.GenerateAttempts <= 0 {
		return Config{}, errors.New("generate attempts must be > 0")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, errors.New("rate limit rps/burst must be > 0")
	}
	if cfg.NameLedgerLimit <= 0 {
		return Config{}, errors.New("name ledger limit must be > 0")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
