package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"keyword-scout/internal/app"
	"keyword-scout/internal/config"
	"keyword-scout/internal/handler"
	"keyword-scout/pkg/logger"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	application := &Application{}

	flag.StringVar(&application.configPath, "config", "", "Configuration file path (optional)")
	flag.BoolVar(&application.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := application.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.NewManager().Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Logger.Level = "debug"
	}
	logger.SetLogger(logger.New(cfg.Logger))
	log := logger.GetLogger().Component("server")

	components, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.WithError(err).Warn("Failed to release resources")
		}
	}()

	server := handler.NewApp(cfg.Server, components.Service)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Starting keyword-scout server")
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received, draining connections")
	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
