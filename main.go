package main

import (
	"context"
	"errors"
	"fmt"
	"inventory_server/api"
	"inventory_server/config"
	"inventory_server/database"
	"inventory_server/lib"
	"inventory_server/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := config.NewLogger(cfg, true)
	mwLogger := config.NewLogger(cfg, false)

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	// Cancelled on SIGINT/SIGTERM; stops the watcher and the server.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := lib.NewMetrics()
	checkpoints := services.NewCheckpointStore(logger, cfg)
	defer func() {
		if err := checkpoints.Close(); err != nil {
			logger.Error("Failed to close checkpoint store", gecho.Field("error", err))
		}
	}()

	var feed database.ChangeFeed
	if cfg.Mongo.Enabled {
		mongoDB, err := database.ConnectMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			logger.Error("Failed to initialize document store, change feed watcher disabled", gecho.Field("error", err))
		} else {
			feed = mongoDB
			defer mongoDB.Close()
		}
	}

	sm := services.NewServiceManager(logger, cfg, feed, checkpoints, metrics)

	// The watcher runs on its own; the server never waits for it.
	sm.WatcherService.Start(ctx)

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, logger, mwLogger, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal, shutting down")
	}

	stop()
	shutdown(server, sm.WatcherService, cfg.Server.ShutdownTimeout, logger)
}

// shutdown drains the server and waits for the watcher to close its cursor,
// so the deferred store disconnects run after both are done.
func shutdown(server *http.Server, watcher *services.WatcherService, timeout time.Duration, logger *gecho.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}

	select {
	case <-watcher.Done():
	case <-ctx.Done():
		logger.Warn("Change feed watcher did not stop before the shutdown timeout")
	}
}
