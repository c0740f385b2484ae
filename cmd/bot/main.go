package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	archiveimpl "github.com/foxseedlab/rvrbot/external/archive"
	configloader "github.com/foxseedlab/rvrbot/external/config"
	gatewayimpl "github.com/foxseedlab/rvrbot/external/gateway"
	"github.com/foxseedlab/rvrbot/external/handlers"
	notifyimpl "github.com/foxseedlab/rvrbot/external/notify"
	"github.com/foxseedlab/rvrbot/internal/config"
	"github.com/foxseedlab/rvrbot/internal/session"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "channel", cfg.ChannelID)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching room bot")
	runBot(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	gatewayimpl.RegisterDI(injector)
	archiveimpl.RegisterDI(injector)
	notifyimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func runBot(cfg *config.Config, injector do.Injector) {
	sup, err := do.Invoke[*session.Supervisor](injector)
	if err != nil {
		slog.Error("failed to resolve connection supervisor", "error", err)
		os.Exit(1)
	}

	handlers.Register(sup.Dispatcher(), cfg)
	slog.Info("chat commands registered", "commands", sup.Dispatcher().Commands())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		slog.Info("startup: entering gateway run loop")
		done <- sup.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
		cancel()
		<-done
	case err := <-done:
		if err != nil && ctx.Err() == nil {
			slog.Error("gateway run failed", "error", err)
			os.Exit(1)
		}
	}
}
