package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-live/internal/engine"
	"github.com/robalobadob/wordle-live/internal/words"
)

const devJWTSecret = "dev_secret_change_me"

type Config struct {
	Port         string
	LogLevel     string
	ClientOrigin string

	RelayURL      string // LIVE_RELAY_URL; empty disables the relay client
	RelayUniqueID string // LIVE_UNIQUE_ID

	ArchiveDBPath string // empty keeps the archive in memory

	JWTSecret         string
	JWTExpiry         time.Duration
	AdminPasswordHash string // bcrypt; empty disables /admin
	CookieName        string
	CookieSecure      bool // SameSite=None; Secure for a cross-origin presentation client

	DictionaryAPIURL string
	Words            words.Config
	Engine           engine.Config
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ClientOrigin:      getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		RelayURL:          getEnv("LIVE_RELAY_URL", ""),
		RelayUniqueID:     getEnv("LIVE_UNIQUE_ID", ""),
		ArchiveDBPath:     getEnv("ARCHIVE_DB_PATH", ""),
		JWTSecret:         getEnv("JWT_SECRET", devJWTSecret),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		CookieName:        getEnv("COOKIE_NAME", "wordle_live_token"),
		DictionaryAPIURL:  getEnv("DICTIONARY_API_URL", ""),
		Words: words.Config{
			AnswersFile: getEnv("WORDS_ANSWERS_FILE", ""),
			AllowedFile: getEnv("WORDS_ALLOWED_FILE", ""),
		},
		Engine: engine.DefaultConfig(),
	}

	hours, err := strconv.Atoi(getEnv("JWT_EXPIRES_HOURS", "12"))
	if err != nil || hours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_HOURS must be a positive integer")
	}
	cfg.JWTExpiry = time.Duration(hours) * time.Hour

	if cfg.CookieSecure, err = strconv.ParseBool(getEnv("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE must be a boolean")
	}

	if v := getEnv("PARTICIPATION_PHRASE", ""); v != "" {
		cfg.Engine.ParticipationPhrase = strings.ToUpper(strings.TrimSpace(v))
	}
	if cfg.Engine.RoundDuration, err = getDuration("ROUND_DURATION", cfg.Engine.RoundDuration); err != nil {
		return nil, err
	}
	if cfg.Engine.PrepareDelay, err = getDuration("PREPARE_DELAY", cfg.Engine.PrepareDelay); err != nil {
		return nil, err
	}
	if cfg.Engine.RoundDuration < cfg.Engine.TickInterval {
		return nil, fmt.Errorf("ROUND_DURATION must be at least %s", cfg.Engine.TickInterval)
	}
	if cfg.Words.AnswersFile != "" && cfg.Words.AllowedFile == "" {
		return nil, fmt.Errorf("WORDS_ANSWERS_FILE requires WORDS_ALLOWED_FILE")
	}
	if cfg.RelayURL != "" && cfg.RelayUniqueID == "" {
		return nil, fmt.Errorf("LIVE_UNIQUE_ID is required when LIVE_RELAY_URL is set")
	}
	if cfg.AdminPasswordHash != "" && cfg.JWTSecret == devJWTSecret {
		logger.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	logger.Info().
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Str("client_origin", cfg.ClientOrigin).
		Bool("relay", cfg.RelayURL != "").
		Str("archive", archiveKind(cfg.ArchiveDBPath)).
		Bool("admin", cfg.AdminPasswordHash != "").
		Bool("cookie_secure", cfg.CookieSecure).
		Str("phrase", cfg.Engine.ParticipationPhrase).
		Dur("round_duration", cfg.Engine.RoundDuration).
		Dur("prepare_delay", cfg.Engine.PrepareDelay).
		Msg("configuration loaded")

	return cfg, nil
}

func archiveKind(path string) string {
	if path == "" {
		return "memory"
	}
	return "sqlite"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("90s") or plain milliseconds ("3000").
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if ms, convErr := strconv.Atoi(v); convErr == nil {
		d, err = time.Duration(ms)*time.Millisecond, nil
	}
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
