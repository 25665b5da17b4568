package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"tmpmail/internal/address"
	"tmpmail/internal/cli"
	"tmpmail/internal/config"
	"tmpmail/internal/history"
	"tmpmail/internal/inbox"
	"tmpmail/internal/parser"
	"tmpmail/internal/provider"
	"tmpmail/internal/render"
	"tmpmail/internal/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)

	// Session state on disk
	sessionStore, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		logger.Error("failed to open session directory", "error", err)
		os.Exit(1)
	}

	// View history is optional: the tool works without it
	historyDB, err := history.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("view history unavailable", "error", err)
		historyDB = nil
	} else {
		defer historyDB.Close()
		if err := historyDB.Migrate(context.Background()); err != nil {
			logger.Warn("view history unavailable", "error", err)
			historyDB = nil
		}
	}

	// Create components
	providerClient := provider.NewClient(provider.Config{
		BaseURL: cfg.ProviderBaseURL,
		Timeout: cfg.HTTPTimeout,
	}, logger)
	shortener := provider.NewShortener(cfg.ShortenerURL, cfg.HTTPTimeout, logger)
	addresses := address.NewManager(providerClient, sessionStore, logger)

	var seen inbox.SeenChecker
	if historyDB != nil {
		seen = historyDB
	}
	inboxService := inbox.NewService(providerClient, seen, logger)

	renderer := render.NewRenderer(render.Deps{
		Source:    providerClient,
		Shortener: shortener,
		Store:     sessionStore,
		Reducer:   parser.NewHTMLToText(),
		Logger:    logger,
	})

	rootCmd := cli.NewRootCmd(cli.Deps{
		Config:    cfg,
		Provider:  providerClient,
		Addresses: addresses,
		Inbox:     inboxService,
		Renderer:  renderer,
		Session:   sessionStore,
		History:   historyDB,
		Codes:     parser.NewCodeDetector(),
		Logger:    logger,
		Version:   version,
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "tmpmail:", err)
		os.Exit(1)
	}
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    false,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
