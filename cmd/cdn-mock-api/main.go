package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyacdn/cdnctl/internal/config"
	"github.com/nyacdn/cdnctl/internal/logging"
	"github.com/nyacdn/cdnctl/internal/mockapi"
)

func main() {
	username := flag.String("admin-username", "admin", "Seeded admin username")
	password := flag.String("admin-password", "admin", "Seeded admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ServiceName = "cdn-mock-api"
	logger := logging.NewLogger(cfg)

	store := mockapi.NewStore()
	if _, err := store.SeedUser("Administrator", *username, *password, true); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed admin user")
	}

	srv := mockapi.NewServer(logger, store)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Str("admin", *username).Msg("starting mock admin API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
