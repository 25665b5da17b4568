package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration. Environment variables seed the
// defaults; CLI flags override individual values at dispatch time.
type Config struct {
	// Provider
	ProviderBaseURL string        `env:"TMPMAIL_PROVIDER_URL" envDefault:"https://www.1secmail.com/api/v1/"`
	ShortenerURL    string        `env:"TMPMAIL_SHORTENER_URL" envDefault:"https://is.gd/create.php"`
	HTTPTimeout     time.Duration `env:"TMPMAIL_HTTP_TIMEOUT" envDefault:"30s"`

	// Display
	Browser      string `env:"TMPMAIL_BROWSER" envDefault:"xdg-open"`
	ClipboardCmd string `env:"TMPMAIL_CLIPBOARD_CMD" envDefault:"xclip -selection clipboard"`
	RawText      bool   `env:"TMPMAIL_RAW_TEXT" envDefault:"false"`

	// State
	SessionDir string `env:"TMPMAIL_SESSION_DIR"` // defaults to <user cache dir>/tmpmail
	HistoryDB  string `env:"TMPMAIL_HISTORY_DB"`  // defaults to <session dir>/history.db

	// Logging
	LogLevel  string `env:"TMPMAIL_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"TMPMAIL_LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SessionDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
		}
		cfg.SessionDir = filepath.Join(cacheDir, "tmpmail")
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = filepath.Join(cfg.SessionDir, "history.db")
	}

	return cfg, nil
}
