// Package main is the entry point for the Meshmark annotation viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/meshmark/internal/config"
	"github.com/Faultbox/meshmark/internal/logger"
	"github.com/Faultbox/meshmark/internal/viewer"
	"github.com/Faultbox/meshmark/internal/viewer/bundle"
	"github.com/Faultbox/meshmark/internal/viewer/store"
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshmark [flags] <share-url>")
		fmt.Fprintln(os.Stderr, "Example: meshmark 'https://review.example.com/view?m=a1b2c3&bg=white'")
		os.Exit(2)
	}
	params, err := bundle.ParseShareURL(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Share link error: %v\n", err)
		os.Exit(2)
	}

	logger.Info("=== Meshmark Viewer ===", zap.String("token", params.Token))

	fetcher, err := bundle.NewClient(cfg.Store.BaseURL, cfg.Store.Timeout)
	if err != nil {
		logger.Error("store client", zap.Error(err))
		os.Exit(1)
	}
	edits, err := store.NewClient(cfg.Store.BaseURL, cfg.Store.Timeout)
	if err != nil {
		logger.Error("store client", zap.Error(err))
		os.Exit(1)
	}

	app := viewer.New(cfg, fetcher, edits, params)
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
