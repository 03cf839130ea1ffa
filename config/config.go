package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	MarketURL      string
	TargetsPath    string
	HistoryCSVPath string
	ScreenshotDir  string

	NtfyTopic  string
	NtfyServer string

	HuntSchedule string

	ResultLimit int
	TypeDelayMs int
	SettleMs    int
	HydrateMs   int
	NavTimeoutS int

	ChromeBin string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		MarketURL:      getEnv("MARKET_URL", "https://starpets.gg"),
		TargetsPath:    getEnv("TARGETS_PATH", "./config.json"),
		HistoryCSVPath: getEnv("HISTORY_CSV_PATH", "./price_history.csv"),
		ScreenshotDir:  getEnv("SCREENSHOT_DIR", "./screenshots"),

		NtfyTopic:  getEnv("NTFY_TOPIC", ""),
		NtfyServer: getEnv("NTFY_SERVER", "https://ntfy.sh"),

		HuntSchedule: getEnv("HUNT_SCHEDULE", ""),

		ResultLimit: getEnvInt("RESULT_LIMIT", 10),
		TypeDelayMs: getEnvInt("TYPE_DELAY_MS", 100),
		SettleMs:    getEnvInt("SETTLE_MS", 4000),
		HydrateMs:   getEnvInt("HYDRATE_MS", 5000),
		NavTimeoutS: getEnvInt("NAV_TIMEOUT_S", 60),

		ChromeBin: getEnv("CHROME_BIN", ""),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "hunter"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "hunter123"),
		PostgresDB:       getEnv("POSTGRES_DB", "starpets_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
