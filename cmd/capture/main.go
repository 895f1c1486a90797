package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	analysisimpl "github.com/foxseedlab/lucidia/external/analysis"
	audioimpl "github.com/foxseedlab/lucidia/external/audio"
	configloader "github.com/foxseedlab/lucidia/external/config"
	speechimpl "github.com/foxseedlab/lucidia/external/speech"
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/foxseedlab/lucidia/internal/session"
	"github.com/samber/do/v2"
)

func main() {
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "speech_mode", cfg.SpeechMode, "endpoint", cfg.AnalysisEndpointURL)

	injector := setupDI(cfg)
	ctrl, err := do.Invoke[*session.Controller](injector)
	if err != nil {
		slog.Error("failed to resolve session controller", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = newConsole(ctrl, os.Stdout).run(ctx, os.Stdin)
	if closeErr := ctrl.Close(); closeErr != nil {
		slog.Warn("failed to stop listening", "error", closeErr)
	}
	if err != nil {
		slog.Error("console failed", "error", err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	if err := configloader.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Logs go to stderr; stdout is the capture view.
func initLogger(cfg *config.Config) {
	logLevel := slog.LevelWarn
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	audioimpl.RegisterDI(injector)
	speechimpl.RegisterDI(injector)
	analysisimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}
