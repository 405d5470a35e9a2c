package main

import (
	"context"
	"fmt"
	"net/http"
	"opsdesk_server/api"
	"opsdesk_server/config"
	"opsdesk_server/database"
	"opsdesk_server/structs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init loads the environment, the logger, and the database connection
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	defer database.CloseInstance()

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	setupGracefulShutdown(srv, logger)

	logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Failed to start server", gecho.Field("error", err))
	}
}

// setupGracefulShutdown drains in-flight requests on SIGINT/SIGTERM before exiting
func setupGracefulShutdown(srv *http.Server, logger *gecho.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-c
		logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", gecho.Field("error", err))
		}
	}()
}
