package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint    = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultRetryPeriod = 600 * time.Second
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogFile     = "program.log"
)

// AppConfig holds all configuration for the application.
// It is built once by Load and treated as read-only afterwards.
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID int64 // 0 means unset

	PracticumEndpoint string
	RetryPeriod       time.Duration
	PollCronSpec      string // Overrides RetryPeriod when set, e.g. "*/10 * * * *"
	HTTPTimeout       time.Duration

	LogLevel    string
	LogFile     string
	LogStdout   bool
	Environment string

	DatabaseURL        string // Optional: enables notification history
	BotCommandsEnabled bool
}

// Load reads configuration from environment variables and .env file (if present).
// Missing tokens are not an error here; use CheckTokens.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.PracticumToken = os.Getenv("PRACTICUM_TOKEN")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	if chatIDStr := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); chatIDStr != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	cfg.PracticumEndpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.PracticumEndpoint == "" {
		cfg.PracticumEndpoint = DefaultEndpoint
	}

	cfg.RetryPeriod, err = durationFromEnv("RETRY_PERIOD", DefaultRetryPeriod)
	if err != nil {
		return nil, err
	}

	cfg.PollCronSpec = strings.TrimSpace(os.Getenv("POLL_CRON_SPEC"))

	cfg.HTTPTimeout, err = durationFromEnv("HTTP_TIMEOUT", DefaultHTTPTimeout)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	cfg.LogStdout, err = boolFromEnv("LOG_STDOUT")
	if err != nil {
		return nil, err
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.BotCommandsEnabled, err = boolFromEnv("BOT_COMMANDS_ENABLED")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// CheckTokens reports whether all three required credentials are present.
func CheckTokens(cfg *AppConfig) bool {
	if cfg == nil {
		return false
	}
	return cfg.PracticumToken != "" && cfg.TelegramToken != "" && cfg.TelegramChatID != 0
}

// MissingTokens names the required variables that are absent.
func MissingTokens(cfg *AppConfig) []string {
	var missing []string
	if cfg == nil || cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if cfg == nil || cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if cfg == nil || cfg.TelegramChatID == 0 {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	return missing
}

// durationFromEnv accepts Go durations ("10m") or plain seconds ("600").
func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid %s: must be positive", key)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func boolFromEnv(key string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
