package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"browser-task/internal/config"
	"browser-task/internal/di"
	"browser-task/internal/infrastructure/env"

	"github.com/spf13/pflag"
)

const shutdownTimeout = 2 * time.Minute

func main() {
	configPath := pflag.StringP("config", "c", "", "YAML config file (default $CONFIG_FILE or ./config.yaml)")
	addr := pflag.String("addr", "", "listen address (overrides config)")
	pflag.Parse()

	envService := env.NewEnvService()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(envService, *configPath)
	} else {
		cfg, err = config.Load(envService)
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	container, err := di.NewContainer(cfg, di.Options{Name: "server", Console: true})
	if err != nil {
		log.Fatalf("Failed to initialise: %v", err)
	}
	defer container.Close()

	server := container.NewServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			container.Logger.Error("Server stopped", "error", err)
			container.Close()
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	container.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		container.Logger.Error("Shutdown failed", "error", err)
	}
	if err := <-errCh; err != nil {
		container.Logger.Error("Server stopped", "error", err)
	}
}
