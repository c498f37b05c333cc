package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/toyrobot/internal/cli"
	"github.com/aretw0/toyrobot/internal/config"
	httpAdapter "github.com/aretw0/toyrobot/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the position log HTTP server",
	Long:  `Serves the position log over HTTP: /api/robotCurrentPosition, /api/robotHistoricalPosition, /metrics and /openapi.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Driver, _ = cmd.Flags().GetString("store")
		}
		if cmd.Flags().Changed("db") {
			cfg.Store.Path, _ = cmd.Flags().GetString("db")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := newLogger(cfg, false)
		if err != nil {
			return err
		}

		mgr, err := cli.NewManager(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("error initializing position store: %w", err)
		}
		defer mgr.Close()

		handler := httpAdapter.NewHandler(mgr, httpAdapter.WithLogger(logger))
		return serve(handler, cfg.Server, logger, cfg.Store.Driver)
	},
}

func serve(handler http.Handler, cfg config.ServerConfig, logger *slog.Logger, driver string) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting toyrobot server", "addr", srv.Addr, "store", driver)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Start shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", cfg.ShutdownTimeout, "error", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("toyrobot server stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 3000, "Port to listen on")
	serveCmd.Flags().String("store", config.DriverSQLite, "Position store: memory, sqlite or redis")
	serveCmd.Flags().String("db", "toyrobot.db", "SQLite database path")
}
