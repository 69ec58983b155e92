package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all worker configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	Concurrency       int
	RateLimitMs       int
	MaxRetries        int
	RetryDelayMs      int
	NavTimeoutSec     int
	WaitTimeoutSec    int
	ExtractTimeoutSec int
	ScrollDistance    int

	CronSchedule    string
	StartupDelaySec int

	KakaoAPIBase string
	ChromeBin    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", ""),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		Concurrency:       getEnvInt("WORKER_CONCURRENCY", 3),
		RateLimitMs:       getEnvInt("RATE_LIMIT_MS", 0),
		MaxRetries:        getEnvInt("MAX_RETRIES", 2),
		RetryDelayMs:      getEnvInt("RETRY_DELAY_MS", 3000),
		NavTimeoutSec:     getEnvInt("NAV_TIMEOUT_SEC", 60),
		WaitTimeoutSec:    getEnvInt("WAIT_TIMEOUT_SEC", 10),
		ExtractTimeoutSec: getEnvInt("EXTRACT_TIMEOUT_SEC", 15),
		ScrollDistance:    getEnvInt("SCROLL_DISTANCE", 1000),

		CronSchedule:    getEnv("CRON_SCHEDULE", "*/10 * * * *"),
		StartupDelaySec: getEnvInt("STARTUP_DELAY_SEC", 10),

		KakaoAPIBase: getEnv("KAKAO_API_BASE", "https://kapi.kakao.com"),
		ChromeBin:    getEnv("CHROME_BIN", ""),
	}
}

// Validate returns the names of required environment variables that are
// missing. The worker must not start against a guessed database target,
// so the PostgreSQL credentials have no defaults.
func (c *Config) Validate() []string {
	var missing []string
	for _, v := range []struct{ name, val string }{
		{"POSTGRES_USER", c.PostgresUser},
		{"POSTGRES_PASSWORD", c.PostgresPassword},
		{"POSTGRES_DB", c.PostgresDB},
	} {
		if v.val == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
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
