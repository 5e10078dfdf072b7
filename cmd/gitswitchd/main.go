package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edvin/gitswitch/internal/api"
	"github.com/edvin/gitswitch/internal/config"
	"github.com/edvin/gitswitch/internal/events"
	"github.com/edvin/gitswitch/internal/logging"
	"github.com/edvin/gitswitch/internal/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "gitswitchd"
	}

	if err := cfg.Validate("gitswitchd"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	reg := registry.New()
	hub := events.NewHub(logger)
	srv := api.NewServer(logger, reg, hub)

	httpServer := &http.Server{
		Addr:        cfg.HTTPListenAddr,
		Handler:     srv,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting gitswitchd")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
