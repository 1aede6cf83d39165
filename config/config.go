package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresEnabled  bool

	MaxConcurrency    int
	RateLimitMs       int
	MaxRetries        int
	MaxResultsPerTerm int
	HTTPTimeoutSec    int

	// JPYUSDRate converts scraped yen prices to USD. A fixed rate is fine
	// for screening purposes; refresh it in .env when it drifts.
	JPYUSDRate float64

	EbayEnabled   bool
	EbayBaseURL   string
	EbayAuthToken string

	CompsEnabled bool
	CompsBaseURL string

	TelegramToken  string
	TelegramChatID int64

	OutputDir     string
	CSVOutputPath string
	RulesPath     string
	LogFilePath   string
	ChromeBin     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "arbitrage"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "arbitrage123"),
		PostgresDB:       getEnv("POSTGRES_DB", "card_arbitrage"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),

		MaxConcurrency:    getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:       getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		MaxResultsPerTerm: getEnvInt("MAX_RESULTS_PER_TERM", 20),
		HTTPTimeoutSec:    getEnvInt("HTTP_TIMEOUT_SEC", 10),

		JPYUSDRate: getEnvFloat("JPY_USD_RATE", 0.0067),

		EbayEnabled:   getEnvBool("EBAY_ENABLED", true),
		EbayBaseURL:   getEnv("EBAY_BASE_URL", "https://api.ebay.com"),
		EbayAuthToken: getEnv("EBAY_AUTH_TOKEN", ""),

		CompsEnabled: getEnvBool("COMPS_ENABLED", true),
		CompsBaseURL: getEnv("COMPS_BASE_URL", "https://back.130point.com"),

		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),

		OutputDir:     getEnv("OUTPUT_DIR", "./output"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/arbitrage_results.csv"),
		RulesPath:     getEnv("RULES_PATH", ""),
		LogFilePath:   getEnv("LOG_FILE", "./arbitrage.log"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
	}
}

// Validate checks for configuration that must abort the run at startup
// rather than degrade per listing. Missing credentials for an enabled
// price source are fatal; everything else degrades gracefully.
func (c *Config) Validate() error {
	if c.EbayEnabled && c.EbayAuthToken == "" {
		return errors.New("EBAY_ENABLED is set but EBAY_AUTH_TOKEN is empty (set the token or EBAY_ENABLED=false)")
	}
	if !c.EbayEnabled && !c.CompsEnabled {
		return errors.New("no price source enabled: set EBAY_ENABLED or COMPS_ENABLED")
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return errors.New("TELEGRAM_BOT_TOKEN is set but TELEGRAM_CHAT_ID is missing")
	}
	if c.JPYUSDRate <= 0 {
		return errors.New("JPY_USD_RATE must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
