package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	HTTPAddr string
	WSAddr   string

	RedisURL    string
	DatabaseURL string

	LibraryPath string
	MsgCatDir   string

	WelcomeKeyPrefix     string
	WelcomeTeardownDelay time.Duration

	BoardSquareSize int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:             ":8080",
		WSAddr:               ":8081",
		WelcomeKeyPrefix:     "coach:welcome",
		WelcomeTeardownDelay: 1200 * time.Millisecond,
		BoardSquareSize:      72,
	}

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("WS_ADDR")); v != "" {
		cfg.WSAddr = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.LibraryPath = strings.TrimSpace(os.Getenv("CHESS_LIBRARY_PATH"))
	cfg.MsgCatDir = strings.TrimSpace(os.Getenv("MSGCAT_DIR"))

	if v := strings.TrimSpace(os.Getenv("WELCOME_KEY_PREFIX")); v != "" {
		cfg.WelcomeKeyPrefix = v
	}
	if v := strings.TrimSpace(os.Getenv("WELCOME_TEARDOWN_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.WelcomeTeardownDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOARD_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BoardSquareSize = n
		}
	}

	return cfg, nil
}
