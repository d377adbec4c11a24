package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"screenlist/internal/config"
	"screenlist/internal/container"
	"screenlist/internal/database"
	"screenlist/internal/logger"
)

const shutdownTimeout = 15 * time.Second

var rootCmd = &cobra.Command{
	Use:           "screenlist",
	Short:         "Movie and TV watchlist API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  migrate,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	logger.Init()

	if err := rootCmd.Execute(); err != nil {
		logger.Get().WithError(err).Fatal("Command failed")
	}
}

// loadConfig reads the environment and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, found, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		return nil, err
	}
	if !found {
		logger.Get().Info("No .env file found, using system environment variables")
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := database.Migrate(ctx, c.DB, log); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func migrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return err
	}
	log := logger.Get()

	pool, err := database.NewPool(cmd.Context(), dsn, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	return database.Migrate(cmd.Context(), pool, log)
}
